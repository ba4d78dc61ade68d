package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gaborage/go-packsource/auth"
	"github.com/gaborage/go-packsource/trace"
)

// HeaderXRequestID is the standard header name for request tracing
const HeaderXRequestID = trace.HeaderXRequestID

// Client defines the REST client interface for making HTTP requests against
// a package source.
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)

	// Close disposes the client's auth handler, if any. It is idempotent;
	// subsequent requests fail with auth.ErrHandlerClosed.
	Close() error
}

// Request represents an HTTP request with all necessary data
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
	Auth    *BasicAuth
	// PromptOnForbidden controls whether a 403 may trigger credential
	// negotiation for this request. Defaults to true.
	PromptOnForbidden *bool
}

// Response represents an HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics. ElapsedTime covers network
// and I/O only; time spent waiting on a credential prompt is excluded.
type Stats struct {
	ElapsedTime time.Duration
	CallCount   int64
}

// BasicAuth contains basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// RequestInterceptor is called before sending the request
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving the response
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// Config holds the REST client configuration
type Config struct {
	Timeout              time.Duration
	MaxRetries           int
	RetryDelay           time.Duration
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	BasicAuth            *BasicAuth
	DefaultHeaders       map[string]string

	// Source and Negotiator wire the auth retry layer into the client's
	// transport. Either may be set independently.
	Source     *auth.PackageSource
	Negotiator auth.Negotiator
	// AuthOptions are extra options passed through to auth.New.
	AuthOptions []auth.Option
	// PromptOnForbidden is the client-wide default for requests that do
	// not set their own preference.
	PromptOnForbidden bool
}

// NewRequestIDInterceptor creates a request interceptor that stamps the
// X-Request-ID header from the context, generating an ID when absent.
func NewRequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(HeaderXRequestID) == "" {
			req.Header.Set(HeaderXRequestID, trace.EnsureRequestID(ctx))
		}
		return nil
	}
}
