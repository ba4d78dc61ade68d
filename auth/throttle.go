package auth

import (
	"context"
	"net/url"

	"golang.org/x/time/rate"
)

// Throttle is a Negotiator decorator that declines to prompt when
// negotiations arrive faster than the configured rate. Declined calls report
// "no credentials" instead of blocking, which protects interactive providers
// from prompt storms while the handler's retry budget drains normally.
type Throttle struct {
	inner   Negotiator
	limiter *rate.Limiter
}

// NewThrottle wraps inner with a prompt rate limit.
func NewThrottle(inner Negotiator, limit rate.Limit, burst int) *Throttle {
	return &Throttle{
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Ensure the decorator satisfies the boundary interface
var _ Negotiator = (*Throttle)(nil)

// Credentials implements Negotiator.
func (t *Throttle) Credentials(ctx context.Context, target, proxy *url.URL, reason FailureReason, message string) (*Credentials, error) {
	if !t.limiter.Allow() {
		return nil, nil
	}
	return t.inner.Credentials(ctx, target, proxy, reason, message)
}

// HandlesDefaultCredentials implements Negotiator.
func (t *Throttle) HandlesDefaultCredentials() bool {
	return t.inner.HandlesDefaultCredentials()
}
