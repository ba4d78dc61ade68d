// Package config loads and validates go-packsource configuration from
// defaults, an optional YAML file, and environment variables, in increasing
// order of precedence.
package config

import "time"

// Config is the root configuration for a package-source client.
type Config struct {
	Source SourceConfig `koanf:"source"`
	Auth   AuthConfig   `koanf:"auth"`
	Client ClientConfig `koanf:"client"`
	Log    LogConfig    `koanf:"log"`
}

// SourceConfig describes the package-source endpoint. Username and Password
// are optional credentials embedded in the source definition; they are
// applied to first sends without consuming the negotiation budget.
type SourceConfig struct {
	URL      string `koanf:"url" validate:"required,url"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// AuthConfig tunes the authenticated-retry layer.
type AuthConfig struct {
	// RetryCeiling is the handler-lifetime maximum number of credential
	// negotiation attempts, shared across all requests.
	RetryCeiling int64 `koanf:"retry_ceiling" validate:"min=0,max=100"`
	// PromptOnForbidden is the default for requests that do not set their
	// own preference; when false, 403 responses never trigger negotiation.
	PromptOnForbidden bool `koanf:"prompt_on_forbidden"`
	// Preflight consults a negotiator that handles default credentials
	// before the first send.
	Preflight bool `koanf:"preflight"`
	// Singleflight collapses concurrent negotiations for the same source
	// into one provider call.
	Singleflight bool `koanf:"singleflight"`
	// PromptRatePerMinute caps how often the negotiator may be invoked;
	// zero disables throttling.
	PromptRatePerMinute float64 `koanf:"prompt_rate_per_minute" validate:"min=0"`
	// PromptBurst is the throttle burst size when throttling is enabled.
	PromptBurst int `koanf:"prompt_burst" validate:"min=0"`
}

// ClientConfig tunes the REST client built on top of the auth layer.
type ClientConfig struct {
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries" validate:"min=0,max=10"`
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}
