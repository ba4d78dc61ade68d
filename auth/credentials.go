package auth

import (
	"context"
	"net/url"
)

// FailureReason describes why the handler is asking for credentials.
type FailureReason string

const (
	// ReasonUnauthorized indicates the source answered 401.
	ReasonUnauthorized FailureReason = "unauthorized"
	// ReasonForbidden indicates the source answered 403.
	ReasonForbidden FailureReason = "forbidden"
	// ReasonDefault indicates a proactive pre-flight request for default
	// credentials, before any failure has been observed.
	ReasonDefault FailureReason = "default"
)

// Credentials is a usable identity for a package source. The handler holds
// negotiated credentials only for the duration of the in-flight retries and
// never caches them across calls.
type Credentials struct {
	Username string
	Password string
}

// PackageSource describes an authenticated package-source endpoint.
// Embedded credentials, when present, are applied to the first physical send
// of every request that does not already carry an Authorization header.
type PackageSource struct {
	// URL is the base endpoint of the source.
	URL string
	// Username and Password are optional credentials embedded in the
	// source's connection information.
	Username string
	Password string
}

// HasCredentials reports whether the source carries embedded credentials.
func (s *PackageSource) HasCredentials() bool {
	return s != nil && s.Username != ""
}

// Negotiator is the boundary to an external credential provider. The provider
// may be slow or interactive; implementations must honor ctx cancellation.
type Negotiator interface {
	// Credentials returns credentials for the target, or (nil, nil) when
	// none are available. proxy may be nil. message is a human-readable
	// diagnostic suitable for an interactive prompt.
	Credentials(ctx context.Context, target, proxy *url.URL, reason FailureReason, message string) (*Credentials, error)

	// HandlesDefaultCredentials reports whether the provider wants to be
	// consulted proactively, before any authentication failure is seen.
	// The handler only acts on this when pre-flight is enabled via
	// WithPreflight.
	HandlesDefaultCredentials() bool
}

// NegotiatorFunc adapts a function to the Negotiator interface. Adapted
// negotiators never handle default credentials.
type NegotiatorFunc func(ctx context.Context, target, proxy *url.URL, reason FailureReason, message string) (*Credentials, error)

// Credentials implements Negotiator.
func (f NegotiatorFunc) Credentials(ctx context.Context, target, proxy *url.URL, reason FailureReason, message string) (*Credentials, error) {
	return f(ctx, target, proxy, reason, message)
}

// HandlesDefaultCredentials implements Negotiator.
func (f NegotiatorFunc) HandlesDefaultCredentials() bool {
	return false
}
