package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/llm/configuration"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	"github.com/docvet/docvet/internal/llm/transport"
)

func TestAnthropicAdapter_Build(t *testing.T) {
	adapter := NewAnthropicAdapter(configuration.ProviderConfig{APIKey: "test-key"})

	req := &transport.Request{
		Provider: ProviderAnthropic,
		Model:    "claude-3-5-haiku-latest",
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "You are a validator."},
			{Role: domain.RoleContext, Content: "Document structure: ..."},
			{Role: domain.RoleAssistant, Content: "Understood."},
			{Role: domain.RoleUser, Content: "Does the document have a title?"},
		},
		MaxTokens:   256,
		Temperature: 0.1,
	}

	httpReq, err := adapter.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "https://api.anthropic.com/v1/messages", httpReq.URL.String())
	assert.Equal(t, "test-key", httpReq.Header.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", httpReq.Header.Get("anthropic-version"))

	raw, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)

	var body struct {
		System   string `json:"system"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	// System turns lift into the top-level system field; the rest keep
	// their order in the messages array.
	assert.Equal(t, "You are a validator.", body.System)
	require.Len(t, body.Messages, 3)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "assistant", body.Messages[1].Role)
	assert.Equal(t, "user", body.Messages[2].Role)
}

func TestAnthropicAdapter_Parse(t *testing.T) {
	adapter := NewAnthropicAdapter(configuration.ProviderConfig{APIKey: "test-key"})

	t.Run("successful response", func(t *testing.T) {
		body := `{
			"id": "msg_123",
			"type": "message",
			"role": "assistant",
			"content": [{"type": "text", "text": "Result: FAIL\nReasoning: no abstract"}],
			"model": "claude-3-5-haiku-latest",
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 140, "output_tokens": 18}
		}`
		httpResp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}

		resp, err := adapter.Parse(httpResp)
		require.NoError(t, err)
		assert.Equal(t, "Result: FAIL\nReasoning: no abstract", resp.Content)
		assert.Equal(t, domain.FinishStop, resp.FinishReason)
		assert.Equal(t, int64(140), resp.Usage.PromptTokens)
		assert.Equal(t, int64(18), resp.Usage.CompletionTokens)
		assert.Equal(t, int64(158), resp.Usage.TotalTokens)
	})

	t.Run("no content blocks is a protocol error", func(t *testing.T) {
		httpResp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"content": []}`)),
			Header:     http.Header{},
		}

		_, err := adapter.Parse(httpResp)
		var provErr *llmerrors.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, llmerrors.ErrorTypeProtocol, provErr.Type)
	})

	t.Run("overloaded error is retryable", func(t *testing.T) {
		body := `{"type": "error", "error": {"type": "overloaded_error", "message": "Overloaded"}}`
		httpResp := &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}

		_, err := adapter.Parse(httpResp)
		var provErr *llmerrors.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.True(t, provErr.IsRetryable())
	})
}
