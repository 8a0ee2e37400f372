package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/llm"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
)

func testDocument() domain.DocumentStructure {
	return domain.DocumentStructure{
		"title":    "Quarterly Report",
		"sections": []any{"Summary", "Details"},
	}
}

func testSpec() domain.ValidationSpec {
	return domain.ValidationSpec{
		Name:        "Has Title",
		Description: "Document must have a title",
		Category:    "metadata",
	}
}

func TestEstablishContext(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Content: "Understood, I have read the document.", PromptTokens: 100, CompletionTokens: 10},
	)
	sess := New(client, Config{}, nil)

	require.NoError(t, sess.EstablishContext(context.Background(), testDocument()))
	assert.True(t, sess.Established())

	// System instruction, document context, assistant acknowledgment.
	messages := sess.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Equal(t, domain.RoleContext, messages[1].Role)
	assert.Contains(t, messages[1].Content, "Quarterly Report")
	assert.Equal(t, domain.RoleAssistant, messages[2].Role)

	usage := sess.Usage()
	assert.Equal(t, int64(100), usage.PromptTokens)
	assert.Equal(t, int64(10), usage.CompletionTokens)
}

func TestEstablishContext_FailureLeavesSessionClean(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Err: &llmerrors.ProviderError{
			Provider:   "openai",
			StatusCode: 401,
			Message:    "invalid api key",
			Type:       llmerrors.ErrorTypeAuth,
		}},
		llm.ScriptStep{Content: "Understood.", PromptTokens: 90, CompletionTokens: 5},
	)
	sess := New(client, Config{}, nil)

	err := sess.EstablishContext(context.Background(), testDocument())
	require.Error(t, err)

	var setupErr *ContextSetupError
	require.ErrorAs(t, err, &setupErr)
	assert.False(t, sess.Established())
	assert.Empty(t, sess.Messages())
	assert.Equal(t, domain.TokenUsage{}, sess.Usage())

	// Full re-attempt succeeds and the transcript holds no trace of the
	// failed exchange.
	require.NoError(t, sess.EstablishContext(context.Background(), testDocument()))
	assert.Len(t, sess.Messages(), 3)
}

func TestEstablishContext_Twice(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Content: "Understood.", PromptTokens: 10, CompletionTokens: 2},
	)
	sess := New(client, Config{}, nil)

	require.NoError(t, sess.EstablishContext(context.Background(), testDocument()))
	require.Error(t, sess.EstablishContext(context.Background(), testDocument()))
}

func TestAsk_RequiresContext(t *testing.T) {
	sess := New(llm.NewScriptedClient(), Config{}, nil)

	_, _, err := sess.Ask(context.Background(), testSpec())
	require.ErrorIs(t, err, ErrContextNotEstablished)
}

func TestAsk_GrowsTranscript(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Content: "Understood.", PromptTokens: 100, CompletionTokens: 10},
		llm.ScriptStep{Content: "Result: PASS\nConfidence: 1.0\nReasoning: found title", PromptTokens: 120, CompletionTokens: 20},
		llm.ScriptStep{Content: "Result: FAIL\nConfidence: 0.8\nReasoning: no abstract", PromptTokens: 150, CompletionTokens: 15},
	)
	sess := New(client, Config{Model: "gpt-4o-mini"}, nil)
	require.NoError(t, sess.EstablishContext(context.Background(), testDocument()))

	reply, usage, err := sess.Ask(context.Background(), testSpec())
	require.NoError(t, err)
	assert.Contains(t, reply, "PASS")
	assert.Equal(t, int64(120), usage.PromptTokens)
	assert.Equal(t, int64(20), usage.CompletionTokens)
	assert.Len(t, sess.Messages(), 5)

	_, _, err = sess.Ask(context.Background(), domain.ValidationSpec{
		Name:        "Has Abstract",
		Description: "Document must include an abstract",
		Category:    "structure",
	})
	require.NoError(t, err)
	assert.Len(t, sess.Messages(), 7)

	// The second question's request carried the entire prior transcript,
	// so the document payload itself went out exactly once.
	requests := client.Requests()
	require.Len(t, requests, 3)
	assert.Len(t, requests[2].Messages, 6)
	docTurns := 0
	for _, msg := range requests[2].Messages {
		if msg.Role == domain.RoleContext {
			docTurns++
		}
	}
	assert.Equal(t, 1, docTurns)

	total := sess.Usage()
	assert.Equal(t, int64(370), total.PromptTokens)
	assert.Equal(t, int64(45), total.CompletionTokens)
}

func TestAsk_FailureLeavesTranscriptUntouched(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Content: "Understood.", PromptTokens: 100, CompletionTokens: 10},
		llm.ScriptStep{Err: llmerrors.ErrProviderUnavailable},
		llm.ScriptStep{Content: "Result: PASS\nReasoning: present", PromptTokens: 110, CompletionTokens: 12},
	)
	sess := New(client, Config{}, nil)
	require.NoError(t, sess.EstablishContext(context.Background(), testDocument()))

	_, _, err := sess.Ask(context.Background(), testSpec())
	require.Error(t, err)
	assert.Len(t, sess.Messages(), 3)

	// A retried Ask sees the same clean history, not a dangling question.
	reply, _, err := sess.Ask(context.Background(), testSpec())
	require.NoError(t, err)
	assert.Contains(t, reply, "PASS")
	assert.Len(t, sess.Messages(), 5)
}
