package auth

import "errors"

// ErrHandlerClosed is returned by RoundTrip after Close has been called on
// the handler. It is raised before any I/O is attempted.
var ErrHandlerClosed = errors.New("auth: handler is closed")
