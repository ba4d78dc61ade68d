package httpclient

import (
	"golang.org/x/time/rate"

	"github.com/gaborage/go-packsource/auth"
	"github.com/gaborage/go-packsource/config"
	"github.com/gaborage/go-packsource/logger"
)

// FromConfig builds a client for the configured package source. The
// negotiator may be nil, in which case auth failures are passed through
// untouched. Depending on the auth configuration, the negotiator is wrapped
// with prompt throttling and single-flight deduplication.
func FromConfig(cfg *config.Config, negotiator auth.Negotiator, log logger.Logger) Client {
	if negotiator != nil {
		if cfg.Auth.PromptRatePerMinute > 0 {
			burst := cfg.Auth.PromptBurst
			if burst < 1 {
				burst = 1
			}
			negotiator = auth.NewThrottle(negotiator, rate.Limit(cfg.Auth.PromptRatePerMinute/60), burst)
		}
		if cfg.Auth.Singleflight {
			negotiator = auth.NewSingleFlight(negotiator)
		}
	}

	b := NewBuilder(log).
		WithTimeout(cfg.Client.Timeout).
		WithRetries(cfg.Client.MaxRetries, cfg.Client.RetryDelay).
		WithPromptOnForbidden(cfg.Auth.PromptOnForbidden).
		WithPackageSource(&auth.PackageSource{
			URL:      cfg.Source.URL,
			Username: cfg.Source.Username,
			Password: cfg.Source.Password,
		}).
		WithNegotiator(negotiator).
		WithAuthOption(auth.WithRetryCeiling(cfg.Auth.RetryCeiling)).
		WithAuthOption(auth.WithPreflight(cfg.Auth.Preflight)).
		WithRequestInterceptor(NewRequestIDInterceptor())

	return b.Build()
}
