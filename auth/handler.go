package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"sync/atomic"

	"github.com/gaborage/go-packsource/logger"
)

// drainLimit caps how much of a discarded response body is read before the
// connection is released for reuse.
const drainLimit = 32 << 10

// Handler is an http.RoundTripper decorator that retries authentication
// failures against a package source. See the package documentation for the
// retry protocol.
//
// A Handler is safe for concurrent use. Close is idempotent and safe to call
// concurrently with in-flight requests and with Close on sibling handlers
// sharing the same inner transport; it never takes a lock and never touches
// the inner transport, whose lifetime belongs to the caller.
type Handler struct {
	inner      nethttp.RoundTripper
	source     *PackageSource
	negotiator Negotiator
	pauser     TimingPauser
	proxy      ProxyFunc
	logger     logger.Logger
	budget     *attemptBudget
	metrics    *handlerMetrics
	preflight  bool
	closed     atomic.Bool
}

// Ensure Handler implements the transport interface
var _ nethttp.RoundTripper = (*Handler)(nil)

// New creates a Handler decorating inner. A nil inner defaults to
// http.DefaultTransport.
func New(inner nethttp.RoundTripper, opts ...Option) *Handler {
	if inner == nil {
		inner = nethttp.DefaultTransport
	}
	h := &Handler{
		inner:  inner,
		budget: newAttemptBudget(DefaultRetryCeiling),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RoundTrip sends the request, negotiating credentials and resending a
// cloned copy on 401/403 responses until the response succeeds, no
// credentials are available, or the handler-lifetime retry budget runs out.
// It fails only with ErrHandlerClosed, a propagated cancellation, or
// whatever the inner transport itself raises; an auth failure that could not
// be repaired is returned as an ordinary response.
func (h *Handler) RoundTrip(req *nethttp.Request) (*nethttp.Response, error) {
	if h.closed.Load() {
		return nil, ErrHandlerClosed
	}

	ctx := req.Context()
	opts := OptionsFromContext(ctx)
	pauser := h.pauserFor(ctx)

	snap, err := newSnapshot(req)
	if err != nil {
		return nil, err
	}

	attempt := snap.clone()
	callerAuth := attempt.Header.Get("Authorization") != ""
	if h.source.HasCredentials() && !callerAuth {
		attempt.SetBasicAuth(h.source.Username, h.source.Password)
	}

	// Pre-flight defers to credentials the caller supplied itself.
	if h.preflight && !callerAuth && h.negotiator != nil && h.negotiator.HandlesDefaultCredentials() {
		creds, err := h.negotiate(ctx, attempt, ReasonDefault, pauser)
		if err != nil {
			return nil, err
		}
		if creds != nil {
			attempt = snap.cloneForRetry()
			attempt.SetBasicAuth(creds.Username, creds.Password)
		}
	}

	for {
		h.metrics.recordSend(ctx)
		resp, err := h.inner.RoundTrip(attempt)
		if err != nil {
			return nil, err
		}

		reason, retryable := classify(resp.StatusCode, opts)
		if !retryable || h.negotiator == nil {
			return resp, nil
		}

		if !h.budget.tryAcquire() {
			h.metrics.recordExhausted(ctx, reason)
			h.debug().Str("url", attempt.URL.Redacted()).Str("reason", string(reason)).
				Msg("retry budget exhausted, returning auth failure")
			return resp, nil
		}

		h.metrics.recordNegotiation(ctx, reason)
		creds, err := h.negotiate(ctx, attempt, reason, pauser)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		if creds == nil {
			return resp, nil
		}

		drain(resp)
		attempt = snap.cloneForRetry()
		attempt.SetBasicAuth(creds.Username, creds.Password)
	}
}

// Close marks the handler as disposed. Subsequent RoundTrip calls fail with
// ErrHandlerClosed before any I/O. Close never blocks and may be called any
// number of times from any goroutine.
func (h *Handler) Close() error {
	if h.closed.CompareAndSwap(false, true) {
		h.debug().Msg("package source auth handler closed")
	}
	return nil
}

// Remaining returns the number of negotiation attempts left in the
// handler-lifetime budget.
func (h *Handler) Remaining() int64 {
	return h.budget.left()
}

// classify maps a response status to a failure reason. A 403 qualifies only
// when the per-request options permit prompting on forbidden.
func classify(status int, opts Options) (FailureReason, bool) {
	switch status {
	case nethttp.StatusUnauthorized:
		return ReasonUnauthorized, true
	case nethttp.StatusForbidden:
		if opts.PromptOnForbidden {
			return ReasonForbidden, true
		}
	}
	return "", false
}

// negotiate asks the configured Negotiator for credentials, pausing the
// timing pauser for the duration of the call. Cancellation propagates; any
// other negotiator error is swallowed and reported as "no credentials".
func (h *Handler) negotiate(ctx context.Context, req *nethttp.Request, reason FailureReason, pauser TimingPauser) (creds *Credentials, err error) {
	target := req.URL
	proxy := h.resolveProxy(req)
	message := fmt.Sprintf("credentials required for %s (%s)", target.Redacted(), reason)

	h.debug().Str("url", target.Redacted()).Str("reason", string(reason)).
		Int64("budget_remaining", h.budget.left()).
		Msg("negotiating credentials")

	pauser.Pause()
	defer pauser.Resume()

	creds, err = h.negotiator.Credentials(ctx, target, proxy, reason, message)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		h.debug().Err(err).Str("url", target.Redacted()).
			Msg("credential negotiation failed, continuing without credentials")
		return nil, nil
	}
	return creds, nil
}

// pauserFor resolves the pauser for one logical call: the call-scoped pauser
// from the context wins over the handler-wide one.
func (h *Handler) pauserFor(ctx context.Context) TimingPauser {
	if p, ok := timingPauserFromContext(ctx); ok && p != nil {
		return p
	}
	if h.pauser != nil {
		return h.pauser
	}
	return nopPauser{}
}

// resolveProxy reports the proxy in effect for the request, falling back to
// the inner transport's proxy function. Errors are ignored; the proxy is
// informational for the Negotiator only.
func (h *Handler) resolveProxy(req *nethttp.Request) *url.URL {
	proxy := h.proxy
	if proxy == nil {
		if t, ok := h.inner.(*nethttp.Transport); ok && t.Proxy != nil {
			proxy = t.Proxy
		}
	}
	if proxy == nil {
		return nil
	}
	u, err := proxy(req)
	if err != nil {
		return nil
	}
	return u
}

// debug returns a debug log event, or a discard event when no logger is set.
func (h *Handler) debug() logger.LogEvent {
	if h.logger == nil {
		return logger.Discard()
	}
	return h.logger.Debug()
}

// drain consumes and closes a response body that will not be returned to the
// caller, so the underlying connection can be reused for the resend.
func drain(resp *nethttp.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	resp.Body.Close()
}
