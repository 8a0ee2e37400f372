package transport

import (
	"net/http"
	"time"

	"github.com/docvet/docvet/internal/domain"
)

// Request represents a normalized request across all LLM providers.
// It carries the full ordered message sequence for one conversational
// exchange; adapters must not mutate or reorder Messages.
type Request struct {
	// Provider identifies which LLM service to use.
	Provider string `json:"provider"` // "openai"|"anthropic"|"google"

	// Model specifies the exact model version to use.
	Model string `json:"model"`

	// Messages is the ordered transcript for this exchange, accumulated
	// history included. Never empty.
	Messages []domain.Message `json:"messages"`

	// Generation parameters control model behavior.
	MaxTokens   int64   `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	// Control fields for resilience and observability.
	Timeout  time.Duration     `json:"timeout"`
	TraceID  string            `json:"trace_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Response represents normalized output from any LLM provider.
// Provides consistent response structure across providers with usage
// tracking for token accounting.
type Response struct {
	// Content is the reply text.
	Content string `json:"content"`

	// Model is the model identifier the provider reports having served.
	Model string `json:"model"`

	// FinishReason indicates why generation stopped.
	FinishReason domain.FinishReason `json:"finish_reason"`

	// ProviderRequestIDs enables cross-system correlation.
	ProviderRequestIDs []string `json:"provider_request_ids"`

	// Usage tracks resource consumption.
	Usage NormalizedUsage `json:"usage"`

	// Headers preserves raw response headers for debugging.
	Headers http.Header `json:"-"`

	// RawBody preserves the original response for audit.
	RawBody []byte `json:"raw_body"`
}

// NormalizedUsage provides consistent usage metrics across all providers.
type NormalizedUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	LatencyMs        int64 `json:"latency_ms"`
}
