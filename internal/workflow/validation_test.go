package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/llm"
	"github.com/docvet/docvet/internal/validate"
	pkgactivity "github.com/docvet/docvet/pkg/activity"
)

func batchSpecs() []domain.ValidationSpec {
	return []domain.ValidationSpec{
		{Name: "Has Title", Description: "Document must have a title", Category: "metadata"},
	}
}

func batchDocuments() []domain.DocumentStructure {
	return []domain.DocumentStructure{
		{"title": "Report A"},
		{"title": "Report B"},
	}
}

func TestBatchValidationWorkflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	t.Run("collects reports in document order", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		// Each document needs its own session: one context exchange plus
		// one per spec. Two documents, so four scripted exchanges.
		client := llm.NewScriptedClient(
			llm.ScriptStep{Content: "Understood.", PromptTokens: 50, CompletionTokens: 5},
			llm.ScriptStep{Content: "Result: PASS\nReasoning: title present", PromptTokens: 60, CompletionTokens: 10},
			llm.ScriptStep{Content: "Understood.", PromptTokens: 50, CompletionTokens: 5},
			llm.ScriptStep{Content: "Result: FAIL\nReasoning: title empty", PromptTokens: 60, CompletionTokens: 10},
		)
		activities := validate.NewActivities(pkgactivity.NewBaseActivities(), client)
		env.RegisterActivity(activities.ValidateDocument)

		env.ExecuteWorkflow(BatchValidationWorkflow, BatchRequest{
			Documents: batchDocuments(),
			Specs:     batchSpecs(),
		})

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result BatchResult
		require.NoError(t, env.GetWorkflowResult(&result))
		require.Len(t, result.Reports, 2)
		assert.Empty(t, result.Failures)

		for _, rep := range result.Reports {
			require.NotNil(t, rep)
			require.Len(t, rep.Results, 1)
			assert.Equal(t, "Has Title", rep.Results[0].SpecName)
		}
	})

	t.Run("empty document list is rejected", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		env.ExecuteWorkflow(BatchValidationWorkflow, BatchRequest{
			Specs: batchSpecs(),
		})

		require.True(t, env.IsWorkflowCompleted())
		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Validation", appErr.Type())
	})

	t.Run("invalid spec list is rejected", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		env.ExecuteWorkflow(BatchValidationWorkflow, BatchRequest{
			Documents: batchDocuments(),
			Specs: []domain.ValidationSpec{
				{Name: "", Description: "unnamed", Category: "metadata"},
			},
		})

		require.True(t, env.IsWorkflowCompleted())
		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Validation", appErr.Type())
	})

	t.Run("one failed document does not sink the batch", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		defer env.AssertExpectations(t)

		activities := validate.NewActivities(pkgactivity.NewBaseActivities(), llm.NewScriptedClient())
		env.RegisterActivity(activities.ValidateDocument)

		good := &domain.Report{
			Results: []domain.ValidationResult{
				{SpecName: "Has Title", Status: domain.StatusPass},
			},
			Summary:  domain.ReportSummary{Passed: 1, PassRate: 1},
			Complete: true,
		}
		env.OnActivity(activities.ValidateDocument, mock.Anything, mock.MatchedBy(func(in validate.Input) bool {
			return in.Document["title"] == "Report A"
		})).Return(good, nil)
		env.OnActivity(activities.ValidateDocument, mock.Anything, mock.MatchedBy(func(in validate.Input) bool {
			return in.Document["title"] == "Report B"
		})).Return(nil, temporal.NewNonRetryableApplicationError("backend authentication failed", "ValidateDocument", nil))

		env.ExecuteWorkflow(BatchValidationWorkflow, BatchRequest{
			Documents: batchDocuments(),
			Specs:     batchSpecs(),
		})

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result BatchResult
		require.NoError(t, env.GetWorkflowResult(&result))
		require.Len(t, result.Reports, 2)
		require.NotNil(t, result.Reports[0])
		assert.Equal(t, 1, result.Reports[0].Summary.Passed)
		assert.Nil(t, result.Reports[1])
		require.Contains(t, result.Failures, 1)
		assert.Contains(t, result.Failures[1], "authentication")
	})
}
