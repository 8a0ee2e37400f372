// Package providers implements provider-specific adapters that translate
// normalized conversation requests into each backend's wire format and
// normalize the replies back. Adapters never mutate or reorder the message
// sequence they are given.
package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/docvet/docvet/internal/llm/configuration"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	"github.com/docvet/docvet/internal/llm/transport"
)

// Router selects the appropriate provider adapter for request routing.
type Router interface {
	// Pick selects the adapter for the specified provider and model
	// combination. Returns an error if the provider is unknown or
	// unconfigured.
	Pick(provider, model string) (ProviderAdapter, error)
}

// ProviderAdapter abstracts provider-specific HTTP communication patterns.
// Each provider (OpenAI, Anthropic, Google) implements this interface to
// handle its API format, authentication scheme, and response structure.
type ProviderAdapter interface {
	// Build constructs a provider-specific HTTP request from the normalized
	// conversation request, serializing the full ordered message sequence.
	Build(ctx context.Context, req *transport.Request) (*http.Request, error)

	// Parse extracts normalized data from the provider's HTTP response,
	// including reply text, usage metrics, and finish reason.
	Parse(httpResp *http.Response) (*transport.Response, error)

	// Name returns the canonical provider identifier for routing and logs.
	Name() string
}

// Supported provider identifiers. These constants must match the provider
// names used in configuration. GitHub Models and other OpenAI-compatible
// services route through the OpenAI adapter with an endpoint override.
const (
	ProviderOpenAI    = "openai"    // OpenAI GPT models and compatible endpoints
	ProviderAnthropic = "anthropic" // Anthropic Claude models
	ProviderGoogle    = "google"    // Google Gemini models
)

// NewRouter creates a router with configured provider adapters.
func NewRouter(configs map[string]configuration.ProviderConfig) (Router, error) {
	adapters := make(map[string]ProviderAdapter)

	for name, cfg := range configs {
		var adapter ProviderAdapter
		switch name {
		case ProviderOpenAI:
			adapter = NewOpenAIAdapter(cfg)
		case ProviderAnthropic:
			adapter = NewAnthropicAdapter(cfg)
		case ProviderGoogle:
			adapter = NewGoogleAdapter(cfg)
		default:
			return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, name)
		}
		adapters[name] = adapter
	}

	return &router{adapters: adapters}, nil
}

// router implements Router with a provider adapter registry.
type router struct {
	adapters map[string]ProviderAdapter
}

// Pick selects the adapter for the given provider name.
func (r *router) Pick(provider, _ string) (ProviderAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, provider)
	}
	return adapter, nil
}
