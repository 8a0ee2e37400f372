package configuration

import (
	"time"
)

// HTTP and connection constants.
const (
	DefaultMaxIdleConns       = 100
	DefaultIdleTimeoutSeconds = 90
	DefaultTLSTimeoutSeconds  = 10
	DefaultHTTPTimeoutSeconds = 30
)

// Retry constants.
const (
	DefaultMaxAttempts       = 3
	DefaultMaxElapsedTime    = 45 * time.Second
	DefaultInitialInterval   = 250 * time.Millisecond
	DefaultMaxInterval       = 5 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// Generation constants.
const (
	// DefaultProvider routes to OpenAI-compatible endpoints.
	DefaultProvider = "openai"

	// DefaultModel is the judgment model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	DefaultMaxTokens = 1024

	// DefaultTemperature is kept low for consistent judgments.
	DefaultTemperature = 0.1
)

// DefaultConfig returns production-ready configuration with sensible defaults.
// Providers must still be configured with credentials by the caller.
func DefaultConfig() *Config {
	return &Config{
		HTTPTimeout:     DefaultHTTPTimeoutSeconds * time.Second,
		DefaultProvider: DefaultProvider,
		DefaultModel:    DefaultModel,
		Generation: GenerationConfig{
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		Retry: RetryConfig{
			MaxAttempts:     DefaultMaxAttempts,
			MaxElapsedTime:  DefaultMaxElapsedTime,
			InitialInterval: DefaultInitialInterval,
			MaxInterval:     DefaultMaxInterval,
			Multiplier:      DefaultBackoffMultiplier,
			UseJitter:       true,
		},
		Observability: ObservabilityConfig{
			RedactPrompts: true,
		},
	}
}
