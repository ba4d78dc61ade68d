package auth

import (
	"bytes"
	"fmt"
	"io"
	nethttp "net/http"
)

// snapshot is an independent, resendable copy of an outgoing request. The
// body is materialized into an immutable byte buffer exactly once, at
// snapshot time, so every attempt gets a fresh body view even when the
// original body was a single-use stream.
type snapshot struct {
	orig    *nethttp.Request
	body    []byte
	hasBody bool
}

// newSnapshot buffers the request body and captures the request for cloning.
// The original body is consumed exactly once; callers must send clones, never
// the original request.
func newSnapshot(req *nethttp.Request) (*snapshot, error) {
	s := &snapshot{orig: req}

	switch {
	case req.GetBody != nil:
		rc, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("auth: reopen request body: %w", err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("auth: buffer request body: %w", err)
		}
		s.body = body
		s.hasBody = true
	case req.Body != nil && req.Body != nethttp.NoBody:
		body, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("auth: buffer request body: %w", err)
		}
		s.body = body
		s.hasBody = true
	}

	return s, nil
}

// clone returns a fresh request carrying the snapshot's method, URL, and
// headers, with an independent body view over the buffered bytes.
func (s *snapshot) clone() *nethttp.Request {
	req := s.orig.Clone(s.orig.Context())
	if !s.hasBody {
		req.Body = nethttp.NoBody
		req.GetBody = nil
		req.ContentLength = 0
		return req
	}

	body := s.body
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.ContentLength = int64(len(body))
	// The body length is known after buffering, so chunked encoding from the
	// original request no longer applies.
	req.TransferEncoding = nil
	return req
}

// cloneForRetry returns a clone with any previously set Authorization header
// removed; the next attempt supplies its own credentials.
func (s *snapshot) cloneForRetry() *nethttp.Request {
	req := s.clone()
	req.Header.Del("Authorization")
	return req
}
