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

func TestGoogleAdapter_Build(t *testing.T) {
	adapter := NewGoogleAdapter(configuration.ProviderConfig{APIKey: "test-key"})

	req := &transport.Request{
		Provider: ProviderGoogle,
		Model:    "gemini-2.0-flash",
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "You are a validator."},
			{Role: domain.RoleContext, Content: "Document structure: ..."},
			{Role: domain.RoleAssistant, Content: "Understood."},
		},
		MaxTokens:   256,
		Temperature: 0.1,
	}

	httpReq, err := adapter.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, httpReq.URL.String(), "/models/gemini-2.0-flash:generateContent")
	assert.Contains(t, httpReq.URL.String(), "key=test-key")

	raw, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)

	var body struct {
		SystemInstruction struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))

	require.Len(t, body.SystemInstruction.Parts, 1)
	assert.Equal(t, "You are a validator.", body.SystemInstruction.Parts[0].Text)

	// Assistant turns map to the "model" role on the wire.
	require.Len(t, body.Contents, 2)
	assert.Equal(t, "user", body.Contents[0].Role)
	assert.Equal(t, "model", body.Contents[1].Role)
}

func TestGoogleAdapter_Parse(t *testing.T) {
	adapter := NewGoogleAdapter(configuration.ProviderConfig{APIKey: "test-key"})

	t.Run("successful response", func(t *testing.T) {
		body := `{
			"candidates": [{
				"content": {"parts": [{"text": "Result: PASS\nReasoning: ok"}]},
				"finishReason": "STOP"
			}],
			"modelVersion": "gemini-2.0-flash",
			"usageMetadata": {"promptTokenCount": 90, "candidatesTokenCount": 12, "totalTokenCount": 102}
		}`
		httpResp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}

		resp, err := adapter.Parse(httpResp)
		require.NoError(t, err)
		assert.Equal(t, "Result: PASS\nReasoning: ok", resp.Content)
		assert.Equal(t, domain.FinishStop, resp.FinishReason)
		assert.Equal(t, int64(90), resp.Usage.PromptTokens)
		assert.Equal(t, int64(12), resp.Usage.CompletionTokens)
	})

	t.Run("no candidates is a protocol error", func(t *testing.T) {
		httpResp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"candidates": []}`)),
			Header:     http.Header{},
		}

		_, err := adapter.Parse(httpResp)
		var provErr *llmerrors.ProviderError
		require.ErrorAs(t, err, &provErr)
		assert.Equal(t, llmerrors.ErrorTypeProtocol, provErr.Type)
	})
}
