package auth

import (
	"bytes"
	"context"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-packsource/internal/testutil"
)

// streamBody wraps a reader so the resulting request has no GetBody,
// simulating a single-use streaming body.
type streamBody struct {
	io.Reader
}

func newStreamRequest(t *testing.T, payload string) *nethttp.Request {
	t.Helper()
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodPost, testutil.TestSourceURL, streamBody{strings.NewReader(payload)})
	require.NoError(t, err)
	require.Nil(t, req.GetBody, "test requires a body without GetBody")
	return req
}

func readBody(t *testing.T, req *nethttp.Request) []byte {
	t.Helper()
	if req.Body == nil || req.Body == nethttp.NoBody {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	req.Body.Close()
	return data
}

func TestSnapshotEmptyBody(t *testing.T) {
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodGet, testutil.TestSourceURL, nethttp.NoBody)
	require.NoError(t, err)

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	clone := snap.clone()
	assert.Empty(t, readBody(t, clone))
	assert.Equal(t, int64(0), clone.ContentLength)
}

func TestSnapshotStringBody(t *testing.T) {
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodPost, testutil.TestSourceURL, strings.NewReader("hello source"))
	require.NoError(t, err)

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	clone := snap.clone()
	assert.Equal(t, "hello source", string(readBody(t, clone)))
	assert.Equal(t, int64(len("hello source")), clone.ContentLength)
}

func TestSnapshotByteBody(t *testing.T) {
	payload := []byte{0x00, 0x01, 0xFF, 0xFE, 0x42}
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodPost, testutil.TestSourceURL, bytes.NewReader(payload))
	require.NoError(t, err)

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	assert.Equal(t, payload, readBody(t, snap.clone()))
}

func TestSnapshotFormBody(t *testing.T) {
	form := url.Values{"id": {"demo"}, "version": {"1.0.0"}}
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodPost, testutil.TestSourceURL, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	clone := snap.clone()
	parsed, err := url.ParseQuery(string(readBody(t, clone)))
	require.NoError(t, err)
	assert.Equal(t, form, parsed)
	assert.Equal(t, "application/x-www-form-urlencoded", clone.Header.Get("Content-Type"))
}

func TestSnapshotStreamingBodyReadOnce(t *testing.T) {
	req := newStreamRequest(t, "one-shot stream")

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	// The single-use stream was materialized once; every clone replays it.
	first := snap.clone()
	second := snap.clone()
	assert.Equal(t, "one-shot stream", string(readBody(t, first)))
	assert.Equal(t, "one-shot stream", string(readBody(t, second)))
}

func TestSnapshotClonesAreIndependent(t *testing.T) {
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodPost, testutil.TestSourceURL, strings.NewReader("shared payload"))
	require.NoError(t, err)
	req.Header.Set("X-Custom", "original")

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	first := snap.clone()
	first.Header.Set("X-Custom", "mutated")

	second := snap.clone()
	assert.Equal(t, "original", second.Header.Get("X-Custom"))

	// Consuming one clone's body leaves the other readable.
	assert.Equal(t, "shared payload", string(readBody(t, first)))
	assert.Equal(t, "shared payload", string(readBody(t, second)))
}

func TestCloneForRetryDropsAuthorization(t *testing.T) {
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodGet, testutil.TestSourceURL, nethttp.NoBody)
	require.NoError(t, err)
	req.SetBasicAuth("stale-user", "stale-secret")
	req.Header.Set("Accept", "application/json")

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	retry := snap.cloneForRetry()
	assert.Empty(t, retry.Header.Get("Authorization"))
	assert.Equal(t, "application/json", retry.Header.Get("Accept"))

	// A plain clone keeps the caller's header.
	plain := snap.clone()
	assert.NotEmpty(t, plain.Header.Get("Authorization"))
}

func TestSnapshotCloneSupportsGetBody(t *testing.T) {
	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodPost, testutil.TestSourceURL, strings.NewReader("redirect-safe"))
	require.NoError(t, err)

	snap, err := newSnapshot(req)
	require.NoError(t, err)

	clone := snap.clone()
	require.NotNil(t, clone.GetBody)
	rc, err := clone.GetBody()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "redirect-safe", string(data))
}
