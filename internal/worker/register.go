// Package worker exposes helpers to set up and register workflows and
// activities with a Temporal worker.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/docvet/docvet/internal/llm"
	"github.com/docvet/docvet/internal/validate"
	"github.com/docvet/docvet/internal/workflow"
	"github.com/docvet/docvet/pkg/activity"
)

// TaskQueue is the Temporal task queue validation workers poll.
const TaskQueue = "docvet-validation"

// RegisterAll registers all workflows and activities with the Temporal
// worker. Must be called during worker initialization, before the worker
// starts; registration is not thread-safe.
func RegisterAll(w sdkworker.Worker, llmClient llm.Client) {
	base := activity.NewBaseActivities()

	validationActivities := validate.NewActivities(base, llmClient)

	w.RegisterWorkflow(workflow.BatchValidationWorkflow)
	w.RegisterActivity(validationActivities.ValidateDocument)
}
