// Package httpclient provides a small, composable REST client for
// package-source endpoints, with request/response interceptors, default
// headers, basic auth, and a retry mechanism with exponential backoff and
// jitter.
//
// Authentication
//   - When a package source or credential negotiator is configured, the
//     client's transport is wrapped in an auth.Handler, which transparently
//     negotiates credentials and resends on 401/403. See package auth.
//   - Response statistics exclude time spent inside credential negotiation:
//     each call plants a stopwatch into the request context that the auth
//     layer pauses around negotiator calls.
//
// Retries
//   - Controlled via Builder.WithRetries(maxRetries, retryDelay).
//   - Retries occur on transport errors, timeouts, and HTTP 5xx responses.
//   - 4xx responses are not retried here; 401/403 recovery belongs to the
//     auth layer underneath.
//
// Backoff strategy
//   - Exponential backoff based on retryDelay: delay = retryDelay * 2^attempt.
//   - Full jitter is applied: actual sleep is random in [0, delay).
//   - Delay is capped at 30 seconds to avoid excessive waits.
package httpclient
