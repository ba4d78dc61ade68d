// Package auth provides an authenticated-retry transport for package-source
// HTTP endpoints. The central type is Handler, an http.RoundTripper decorator
// that detects authentication failures (401/403), asks a pluggable Negotiator
// for fresh credentials, and resends a cloned copy of the request.
//
// Retry ceiling
//   - Negotiation attempts are bounded by a handler-lifetime budget
//     (DefaultRetryCeiling, configurable via WithRetryCeiling).
//   - The budget is shared across every request the handler ever serves and
//     is never replenished. Once it reaches zero, failing responses are
//     passed through without consulting the Negotiator again.
//   - The budget is decremented before each negotiation and the decrement is
//     never rolled back, so a provider that keeps failing (or keeps
//     prompting interactively) cannot fire an unbounded number of times.
//
// Negotiation outcomes
//   - Credentials returned: the request is cloned, the new credentials are
//     applied, and the request is resent.
//   - No credentials (nil, nil): the failing response is returned as-is.
//   - Context cancellation: propagated to the caller immediately.
//   - Any other error: swallowed and treated as "no credentials".
//
// Request bodies are buffered once up front so retries can resend them, even
// when the original body is a single-use stream.
package auth
