package auth

import (
	"context"
	"errors"
	"net/url"

	"golang.org/x/sync/singleflight"
)

// SingleFlight is a Negotiator decorator that collapses concurrent
// negotiations for the same source and reason into a single call to the
// wrapped provider. Useful when the provider prompts interactively: many
// requests hitting the same 401 at once produce one prompt, and every waiter
// shares its result.
type SingleFlight struct {
	inner Negotiator
	group singleflight.Group
}

// NewSingleFlight wraps inner with prompt deduplication.
func NewSingleFlight(inner Negotiator) *SingleFlight {
	return &SingleFlight{inner: inner}
}

// Ensure the decorator satisfies the boundary interface
var _ Negotiator = (*SingleFlight)(nil)

// Credentials implements Negotiator. A waiter whose own context is cancelled
// stops waiting and returns its context error; the in-flight call keeps
// running for the remaining waiters. If the shared call was cancelled by its
// initiator, unaffected waiters observe "no credentials" rather than a
// cancellation that was never theirs.
func (s *SingleFlight) Credentials(ctx context.Context, target, proxy *url.URL, reason FailureReason, message string) (*Credentials, error) {
	key := target.Host + "|" + string(reason)

	ch := s.group.DoChan(key, func() (any, error) {
		return s.inner.Credentials(ctx, target, proxy, reason, message)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if isContextError(res.Err) && ctx.Err() == nil {
				s.group.Forget(key)
				return nil, nil
			}
			return nil, res.Err
		}
		creds, _ := res.Val.(*Credentials)
		return creds, nil
	}
}

// HandlesDefaultCredentials implements Negotiator.
func (s *SingleFlight) HandlesDefaultCredentials() bool {
	return s.inner.HandlesDefaultCredentials()
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
