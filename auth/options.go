package auth

import (
	"context"
	nethttp "net/http"
	"net/url"

	"go.opentelemetry.io/otel/metric"

	"github.com/gaborage/go-packsource/logger"
)

// Options is the per-request configuration read by the handler. It is
// attached to the outgoing request through its context.
type Options struct {
	// PromptOnForbidden controls whether a 403 response may trigger
	// credential negotiation. When false, 403 responses are returned
	// immediately without consuming any retry budget.
	PromptOnForbidden bool
}

// optionsKey is the context key for per-request Options.
type optionsKey struct{}

// WithOptions attaches per-request options to the context.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// OptionsFromContext returns the per-request options, or the defaults
// (prompting on 403 permitted) when none are attached.
func OptionsFromContext(ctx context.Context) Options {
	if opts, ok := ctx.Value(optionsKey{}).(Options); ok {
		return opts
	}
	return Options{PromptOnForbidden: true}
}

// ProxyFunc resolves the proxy that would be used for a request. The result
// is passed to the Negotiator for context; resolution errors are ignored.
type ProxyFunc func(*nethttp.Request) (*url.URL, error)

// Option configures a Handler.
type Option func(*Handler)

// WithSource sets the package source. Embedded credentials on the source are
// applied to the first physical send of requests that carry no Authorization
// header.
func WithSource(source *PackageSource) Option {
	return func(h *Handler) {
		h.source = source
	}
}

// WithNegotiator sets the credential provider consulted on 401/403
// responses. Without a negotiator the handler passes failing responses
// through untouched and never consumes its retry budget.
func WithNegotiator(n Negotiator) Option {
	return func(h *Handler) {
		h.negotiator = n
	}
}

// WithRetryCeiling overrides DefaultRetryCeiling for this handler.
func WithRetryCeiling(ceiling int64) Option {
	return func(h *Handler) {
		if ceiling >= 0 {
			h.budget = newAttemptBudget(ceiling)
		}
	}
}

// WithLogger sets the logger used for negotiation decisions.
func WithLogger(log logger.Logger) Option {
	return func(h *Handler) {
		h.logger = log
	}
}

// WithPauser sets a handler-wide TimingPauser. A call-scoped pauser attached
// with WithTimingPauser on the request context takes precedence.
func WithPauser(p TimingPauser) Option {
	return func(h *Handler) {
		if p != nil {
			h.pauser = p
		}
	}
}

// WithProxy sets the proxy resolver reported to the Negotiator. When unset,
// the proxy of an inner *http.Transport is used if available.
func WithProxy(proxy ProxyFunc) Option {
	return func(h *Handler) {
		h.proxy = proxy
	}
}

// WithPreflight enables the proactive pre-flight hook: when the negotiator
// reports HandlesDefaultCredentials, it is consulted once per logical call
// before the first physical send, with ReasonDefault. Pre-flight does not
// consume the retry budget.
func WithPreflight(enabled bool) Option {
	return func(h *Handler) {
		h.preflight = enabled
	}
}

// WithMeterProvider enables retry metrics on the given provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(h *Handler) {
		h.metrics = newHandlerMetrics(mp)
	}
}
