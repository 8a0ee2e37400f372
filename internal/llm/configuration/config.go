// Package configuration holds the backend client configuration: provider
// credentials and endpoints, retry policy, generation parameters, and
// observability toggles, with documented production defaults.
package configuration

import (
	"net/http"
	"time"
)

// Config holds the full configuration for the backend client.
type Config struct {
	// HTTP client configuration
	HTTPTimeout time.Duration `json:"http_timeout"`
	HTTPClient  *http.Client  `json:"-"`

	// Provider configurations keyed by provider name.
	Providers map[string]ProviderConfig `json:"providers"`

	// DefaultProvider is used when a request names no provider.
	DefaultProvider string `json:"default_provider"`

	// DefaultModel is used when a request names no model. Changing it never
	// alters session or conversation semantics.
	DefaultModel string `json:"default_model"`

	// Generation defaults applied when a request leaves them zero.
	Generation GenerationConfig `json:"generation"`

	// Retry configuration
	Retry RetryConfig `json:"retry"`

	// Observability configuration
	Observability ObservabilityConfig `json:"observability"`
}

// ProviderConfig holds provider-specific configuration and authentication.
type ProviderConfig struct {
	Endpoint string            `json:"endpoint"`
	APIKey   string            `json:"-"` // Sensitive, not serialized
	Timeout  time.Duration     `json:"timeout"`
	Headers  map[string]string `json:"headers"`
}

// GenerationConfig carries optional generation parameters sent to backends.
type GenerationConfig struct {
	MaxTokens   int64   `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// RetryConfig controls retry behavior for failed backend exchanges.
// Implements exponential backoff with jitter for optimal retry timing.
type RetryConfig struct {
	MaxAttempts     int           `json:"max_attempts"`     // Maximum attempts per exchange
	MaxElapsedTime  time.Duration `json:"max_elapsed_time"` // Total time budget for all attempts
	InitialInterval time.Duration `json:"initial_interval"` // Starting backoff duration
	MaxInterval     time.Duration `json:"max_interval"`     // Maximum backoff duration
	Multiplier      float64       `json:"multiplier"`       // Exponential backoff multiplier
	UseJitter       bool          `json:"use_jitter"`       // Enable full jitter randomization
}

// ObservabilityConfig controls diagnostic logging granularity.
type ObservabilityConfig struct {
	// RedactPrompts replaces transcript content with length counts in logs.
	RedactPrompts bool `json:"redact_prompts"`

	// LogTranscripts enables raw prompt/response logging at debug level.
	LogTranscripts bool `json:"log_transcripts"`
}
