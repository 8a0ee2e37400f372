package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/llm"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	pkgactivity "github.com/docvet/docvet/pkg/activity"
)

func testInput() Input {
	return Input{
		Document: domain.DocumentStructure{"title": "Quarterly Report"},
		Specs: []domain.ValidationSpec{
			{Name: "Has Title", Description: "Document must have a title", Category: "metadata"},
		},
	}
}

func TestValidateDocument_Success(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Content: "Understood.", PromptTokens: 50, CompletionTokens: 5},
		llm.ScriptStep{Content: "Result: PASS\nConfidence: 0.9\nReasoning: title present", PromptTokens: 60, CompletionTokens: 10},
	)
	activities := NewActivities(pkgactivity.NewBaseActivities(), client)

	rep, err := activities.ValidateDocument(context.Background(), testInput())
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, domain.StatusPass, rep.Results[0].Status)
	assert.True(t, rep.Complete)
}

func TestValidateDocument_AuthFailureIsNonRetryable(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Err: &llmerrors.ProviderError{
			Provider:   "openai",
			StatusCode: 401,
			Message:    "invalid api key",
			Type:       llmerrors.ErrorTypeAuth,
		}},
	)
	activities := NewActivities(pkgactivity.NewBaseActivities(), client)

	_, err := activities.ValidateDocument(context.Background(), testInput())
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
	assert.Equal(t, "ValidateDocument", appErr.Type())
}

func TestValidateDocument_TransientContextFailureIsRetryable(t *testing.T) {
	client := llm.NewScriptedClient(
		llm.ScriptStep{Err: llmerrors.ErrProviderUnavailable},
	)
	activities := NewActivities(pkgactivity.NewBaseActivities(), client)

	_, err := activities.ValidateDocument(context.Background(), testInput())
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.False(t, appErr.NonRetryable())
}

func TestValidateDocument_BadInputIsNonRetryable(t *testing.T) {
	activities := NewActivities(pkgactivity.NewBaseActivities(), llm.NewScriptedClient())

	in := testInput()
	in.Specs = append(in.Specs, in.Specs[0])

	_, err := activities.ValidateDocument(context.Background(), in)
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
}
