package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
source:
  url: https://nuget.example.com/v3/index.json
`

func TestLoadBytesDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://nuget.example.com/v3/index.json", cfg.Source.URL)
	assert.Equal(t, int64(3), cfg.Auth.RetryCeiling)
	assert.True(t, cfg.Auth.PromptOnForbidden)
	assert.False(t, cfg.Auth.Preflight)
	assert.False(t, cfg.Auth.Singleflight)
	assert.Zero(t, cfg.Auth.PromptRatePerMinute)
	assert.Equal(t, 1, cfg.Auth.PromptBurst)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 0, cfg.Client.MaxRetries)
	assert.Equal(t, time.Second, cfg.Client.RetryDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoadBytesOverridesDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte(`
source:
  url: https://nuget.example.com/v3/index.json
  username: feed-user
  password: feed-secret
auth:
  retry_ceiling: 5
  prompt_on_forbidden: false
  singleflight: true
  prompt_rate_per_minute: 12
  prompt_burst: 2
client:
  timeout: 10s
  max_retries: 3
  retry_delay: 250ms
log:
  level: debug
  pretty: true
`))
	require.NoError(t, err)

	assert.Equal(t, "feed-user", cfg.Source.Username)
	assert.Equal(t, "feed-secret", cfg.Source.Password)
	assert.Equal(t, int64(5), cfg.Auth.RetryCeiling)
	assert.False(t, cfg.Auth.PromptOnForbidden)
	assert.True(t, cfg.Auth.Singleflight)
	assert.Equal(t, float64(12), cfg.Auth.PromptRatePerMinute)
	assert.Equal(t, 2, cfg.Auth.PromptBurst)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 3, cfg.Client.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.RetryDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoadBytesInvalidYAML(t *testing.T) {
	_, err := LoadBytes([]byte("source: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse configuration")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packsource.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  url: https://nuget.example.com/v3/index.json
auth:
  retry_ceiling: 7
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Auth.RetryCeiling)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Auth.PromptOnForbidden)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PACKSOURCE_SOURCE__URL", "https://nuget.example.com/v3/index.json")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, int64(3), cfg.Auth.RetryCeiling)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packsource.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  url: https://nuget.example.com/v3/index.json
auth:
  retry_ceiling: 5
`), 0o600))

	t.Setenv("PACKSOURCE_AUTH__RETRY_CEILING", "9")
	t.Setenv("PACKSOURCE_LOG__LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(9), cfg.Auth.RetryCeiling)
	assert.Equal(t, "error", cfg.Log.Level)
	// File values not overridden by environment survive.
	assert.Equal(t, "https://nuget.example.com/v3/index.json", cfg.Source.URL)
}

func TestLoadBytesMissingSourceURL(t *testing.T) {
	_, err := LoadBytes([]byte("auth:\n  retry_ceiling: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Source.URL is required")
}
