// Package validate implements the document-validation Temporal activity.
// Each activity invocation runs one full validation session for one document
// and returns its report; fatal backend failures are classified so Temporal
// never retries what cannot succeed.
package validate

import (
	"context"

	"go.temporal.io/sdk/temporal"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/engine"
	"github.com/docvet/docvet/internal/llm"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	pkgactivity "github.com/docvet/docvet/pkg/activity"
)

// Input carries everything one document validation needs. Provider and
// Model override client defaults when non-empty.
type Input struct {
	Document domain.DocumentStructure `json:"document"`
	Specs    []domain.ValidationSpec  `json:"specs"`
	Provider string                   `json:"provider,omitempty"`
	Model    string                   `json:"model,omitempty"`
}

// Activities handles validation Temporal activities. One activity call maps
// to one conversational session, so parallel documents run as parallel
// activities with no shared session state.
type Activities struct {
	pkgactivity.BaseActivities
	llmClient llm.Client
}

// NewActivities creates an Activities instance over a backend client.
func NewActivities(base pkgactivity.BaseActivities, client llm.Client) *Activities {
	return &Activities{
		BaseActivities: base,
		llmClient:      client,
	}
}

// ValidateDocument runs the validation engine for one document. Transient
// backend trouble surfaces as a retryable error so the workflow's retry
// policy re-runs the whole session; auth and malformed-input failures are
// marked non-retryable.
func (a *Activities) ValidateDocument(ctx context.Context, in Input) (*domain.Report, error) {
	wfCtx := a.GetWorkflowContext(ctx)
	pkgactivity.SafeLog(ctx, "document validation started",
		"workflow_id", wfCtx.WorkflowID,
		"specs", len(in.Specs),
	)

	eng := engine.New(a.llmClient, engine.Config{
		Provider: in.Provider,
		Model:    in.Model,
	}, nil)

	a.RecordHeartbeat(ctx, "context setup")

	rep, err := eng.ValidateDocument(ctx, in.Document, in.Specs)
	if err != nil {
		switch {
		case llmerrors.IsAuthError(err):
			return nil, nonRetryable("ValidateDocument", err, "backend authentication failed")
		case llmerrors.IsProtocolError(err):
			return nil, nonRetryable("ValidateDocument", err, "backend protocol failure during context setup")
		case domain.IsSpecListError(err):
			return nil, nonRetryable("ValidateDocument", err, "invalid validation input")
		default:
			// Context setup exhausted its retry budget on transient trouble;
			// a fresh activity attempt re-runs the whole session.
			return nil, retryable("ValidateDocument", err, "context setup failed")
		}
	}

	pkgactivity.SafeLog(ctx, "document validation finished",
		"workflow_id", wfCtx.WorkflowID,
		"passed", rep.Summary.Passed,
		"failed", rep.Summary.Failed,
		"errored", rep.Summary.Errored,
		"complete", rep.Complete,
	)
	return rep, nil
}

// nonRetryable wraps an error as a Temporal non-retryable application error.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

// retryable wraps errors as retryable Temporal application errors for
// transient failures.
func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}
