package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestThrottleAllowsWithinBurst(t *testing.T) {
	inner := &fakeNegotiator{creds: promptedCreds()}
	th := NewThrottle(inner, rate.Every(time.Hour), 2)

	target := mustParse(t, "https://nuget.example.com/v3/index.json")

	for i := 0; i < 2; i++ {
		creds, err := th.Credentials(context.Background(), target, nil, ReasonUnauthorized, "m")
		require.NoError(t, err)
		assert.NotNil(t, creds)
	}
	assert.Equal(t, 2, inner.callCount())
}

func TestThrottleDeclinesBeyondBurst(t *testing.T) {
	inner := &fakeNegotiator{creds: promptedCreds()}
	th := NewThrottle(inner, rate.Every(time.Hour), 1)

	target := mustParse(t, "https://nuget.example.com/v3/index.json")

	creds, err := th.Credentials(context.Background(), target, nil, ReasonUnauthorized, "m")
	require.NoError(t, err)
	require.NotNil(t, creds)

	// The second prompt inside the same window is declined, not blocked.
	creds, err = th.Credentials(context.Background(), target, nil, ReasonUnauthorized, "m")
	assert.NoError(t, err)
	assert.Nil(t, creds)
	assert.Equal(t, 1, inner.callCount())
}

func TestThrottlePassesThroughDefaultHandling(t *testing.T) {
	inner := &fakeNegotiator{handlesDefault: true}
	assert.True(t, NewThrottle(inner, rate.Inf, 1).HandlesDefaultCredentials())
}
