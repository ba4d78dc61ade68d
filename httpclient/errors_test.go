package httpclient

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypes(t *testing.T) {
	wrapped := errors.New("connection refused")

	tests := []struct {
		name     string
		err      ClientError
		errType  ErrorType
		contains string
	}{
		{
			name:     "network",
			err:      NewNetworkError("dial failed", wrapped),
			errType:  NetworkError,
			contains: "connection refused",
		},
		{
			name:     "network_without_cause",
			err:      NewNetworkError("dial failed", nil),
			errType:  NetworkError,
			contains: "dial failed",
		},
		{
			name:     "timeout",
			err:      NewTimeoutError("request timeout", 5*time.Second),
			errType:  TimeoutError,
			contains: "5s",
		},
		{
			name:     "http",
			err:      NewHTTPError("request failed", 502, []byte("bad gateway")),
			errType:  HTTPError,
			contains: "502",
		},
		{
			name:     "request_validation",
			err:      NewRequestError("URL cannot be empty", "validation", nil),
			errType:  RequestError,
			contains: "validation",
		},
		{
			name:     "request_interceptor",
			err:      NewRequestError("interceptor failed", "response", wrapped),
			errType:  RequestError,
			contains: "response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errType, tt.err.Type())
			assert.Contains(t, tt.err.Error(), tt.contains)
			assert.True(t, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestIsErrorType(t *testing.T) {
	netErr := NewNetworkError("boom", nil)

	assert.True(t, IsErrorType(netErr, NetworkError))
	assert.False(t, IsErrorType(netErr, TimeoutError))
	assert.False(t, IsErrorType(nil, NetworkError))
	assert.False(t, IsErrorType(errors.New("plain"), NetworkError))

	// Wrapped client errors are still recognized.
	wrapped := fmt.Errorf("outer: %w", netErr)
	assert.True(t, IsErrorType(wrapped, NetworkError))
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("root cause")

	assert.ErrorIs(t, NewNetworkError("boom", cause), cause)
	assert.ErrorIs(t, NewRequestError("boom", "request", cause), cause)
}

func TestIsHTTPStatusError(t *testing.T) {
	err := NewHTTPError("request failed", 401, nil)

	assert.True(t, IsHTTPStatusError(err, 401))
	assert.False(t, IsHTTPStatusError(err, 403))
	assert.False(t, IsHTTPStatusError(errors.New("plain"), 401))
	assert.False(t, IsHTTPStatusError(nil, 401))
}

func TestHTTPErrorAccessors(t *testing.T) {
	err := NewHTTPError("request failed", 502, []byte("bad gateway"))

	var httpErr *httpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 502, httpErr.StatusCode())
	assert.Equal(t, "bad gateway", string(httpErr.Body()))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(204))
	assert.False(t, IsSuccessStatus(301))
	assert.False(t, IsSuccessStatus(500))

	assert.True(t, IsAuthStatus(401))
	assert.True(t, IsAuthStatus(403))
	assert.False(t, IsAuthStatus(407))
	assert.False(t, IsAuthStatus(200))
}
