// Package workflow orchestrates document validation using Temporal
// workflows. Parallelism is across documents: each document gets its own
// activity and therefore its own conversational session, while exchanges
// within a session stay strictly sequential inside the activity.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/validate"
)

// BatchRequest validates several documents against one shared spec list.
type BatchRequest struct {
	Documents []domain.DocumentStructure `json:"documents"`
	Specs     []domain.ValidationSpec    `json:"specs"`
	Provider  string                     `json:"provider,omitempty"`
	Model     string                     `json:"model,omitempty"`

	// ActivityTimeout bounds one document's whole session. Zero means the
	// default.
	ActivityTimeout time.Duration `json:"activity_timeout,omitempty"`
}

// BatchResult pairs each document index with its report, in document input
// order. A document whose activity ultimately failed has a nil report and
// its failure message in Failures under the same index.
type BatchResult struct {
	Reports  []*domain.Report `json:"reports"`
	Failures map[int]string   `json:"failures,omitempty"`
}

const defaultActivityTimeout = 5 * time.Minute

// BatchValidationWorkflow fans one validation activity out per document and
// collects reports in input order. All workflow code uses workflow-safe
// APIs only.
func BatchValidationWorkflow(ctx workflow.Context, req BatchRequest) (*BatchResult, error) {
	// Version gate enables safe evolution and backward compatibility.
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "batch-validation.v", workflow.DefaultVersion, currentVersion)

	if len(req.Documents) == 0 {
		return nil, temporal.NewNonRetryableApplicationError(
			"no documents to validate",
			"Validation",
			nil,
		)
	}
	if err := domain.ValidateSpecList(req.Specs); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid spec list",
			"Validation",
			err,
		)
	}

	timeout := req.ActivityTimeout
	if timeout <= 0 {
		timeout = defaultActivityTimeout
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var activities *validate.Activities

	// Start every document's activity before awaiting any, so documents
	// validate concurrently on the worker pool.
	futures := make([]workflow.Future, len(req.Documents))
	for i, doc := range req.Documents {
		futures[i] = workflow.ExecuteActivity(ctx, activities.ValidateDocument, validate.Input{
			Document: doc,
			Specs:    req.Specs,
			Provider: req.Provider,
			Model:    req.Model,
		})
	}

	// One document's exhausted retries never sink the batch; its slot
	// records the failure and the rest complete normally.
	result := &BatchResult{Reports: make([]*domain.Report, len(req.Documents))}
	for i, future := range futures {
		var rep domain.Report
		if err := future.Get(ctx, &rep); err != nil {
			if result.Failures == nil {
				result.Failures = make(map[int]string)
			}
			result.Failures[i] = err.Error()
			continue
		}
		result.Reports[i] = &rep
	}

	return result, nil
}
