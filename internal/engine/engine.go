// Package engine orchestrates a full validation run: context setup, one
// exchange per spec in input order, and aggregation into a report. Per-spec
// failures downgrade to ERROR results; only context-setup failure aborts.
package engine

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/google/uuid"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/llm"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	"github.com/docvet/docvet/internal/parser"
	"github.com/docvet/docvet/internal/report"
	"github.com/docvet/docvet/internal/session"
)

// runState tracks a run through its lifecycle for logging and transition
// checks. Aborted is only reachable before the first spec exchange.
type runState string

const (
	stateInit       runState = "INIT"
	stateContextSet runState = "CONTEXT_SET"
	stateValidating runState = "VALIDATING"
	stateDone       runState = "DONE"
	stateAborted    runState = "ABORTED"
)

// Config carries engine construction options. Zero values defer to backend
// client defaults.
type Config struct {
	Provider string
	Model    string
}

// Engine validates documents against spec lists through one conversational
// session per document. An Engine is safe for concurrent ValidateDocument
// calls; each call owns its session exclusively.
type Engine struct {
	client llm.Client
	config Config
	logger *slog.Logger
}

// New creates an engine over a backend client. A nil logger falls back to
// slog.Default.
func New(client llm.Client, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		client: client,
		config: cfg,
		logger: logger.With("component", "engine"),
	}
}

// ValidateDocument runs every spec against the document in input order and
// returns the aggregated report. Context-setup failure returns a nil report
// with a ContextSetupError. Cancellation takes effect between specs and
// yields a partial report with no error.
func (e *Engine) ValidateDocument(
	ctx context.Context,
	doc domain.DocumentStructure,
	specs []domain.ValidationSpec,
) (*domain.Report, error) {
	if err := domain.ValidateSpecList(specs); err != nil {
		return nil, fmt.Errorf("invalid spec list: %w", err)
	}

	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)
	state := stateInit

	sess := session.New(e.client, session.Config{
		Provider: e.config.Provider,
		Model:    e.config.Model,
	}, logger)

	logger.Info("validation run started", "state", string(state), "specs", len(specs))

	if err := sess.EstablishContext(ctx, doc); err != nil {
		state = stateAborted
		logger.Error("validation run aborted",
			"state", string(state),
			"error", err,
		)
		return nil, err
	}
	state = stateContextSet

	results := make([]domain.ValidationResult, 0, len(specs))
	complete := true

	for _, spec := range specs {
		// Cancellation is honored only at spec boundaries so no exchange
		// is ever abandoned half-recorded.
		if ctx.Err() != nil {
			logger.Warn("validation run cancelled",
				"completed_specs", len(results),
				"remaining_specs", len(specs)-len(results),
			)
			complete = false
			break
		}

		state = stateValidating
		result, fatal := e.validateSpec(ctx, sess, spec, logger)
		results = append(results, result)

		if fatal {
			logger.Error("validation run stopped on fatal backend error",
				"spec", spec.Name,
				"completed_specs", len(results),
			)
			complete = false
			break
		}
	}

	state = stateDone
	rep := report.Aggregate(results, sess.Usage(), complete)

	logger.Info("validation run finished",
		"state", string(state),
		"passed", rep.Summary.Passed,
		"failed", rep.Summary.Failed,
		"errored", rep.Summary.Errored,
		"complete", rep.Complete,
		"total_tokens", rep.Usage.Total(),
	)
	return rep, nil
}

// validateSpec performs one spec exchange and maps every failure mode to a
// result. fatal is true only for auth-class errors, which make all further
// exchanges pointless.
func (e *Engine) validateSpec(
	ctx context.Context,
	sess *session.Session,
	spec domain.ValidationSpec,
	logger *slog.Logger,
) (domain.ValidationResult, bool) {
	reply, usage, err := sess.Ask(ctx, spec)
	if err != nil {
		logger.Warn("spec exchange failed", "spec", spec.Name, "error", err)
		return domain.ValidationResult{
			SpecName:  spec.Name,
			Status:    domain.StatusError,
			Reasoning: fmt.Sprintf("backend exchange failed: %v", err),
		}, llmerrors.IsAuthError(err)
	}

	outcome, err := parser.Parse(reply)
	if err != nil {
		logger.Warn("spec reply unparseable", "spec", spec.Name, "error", err)
		return domain.ValidationResult{
			SpecName:         spec.Name,
			Status:           domain.StatusError,
			Reasoning:        fmt.Sprintf("could not interpret reply: %v", err),
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
		}, false
	}

	logger.Debug("spec validated",
		"spec", spec.Name,
		"status", string(outcome.Status),
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)
	return domain.ValidationResult{
		SpecName:         spec.Name,
		Status:           outcome.Status,
		Confidence:       outcome.Confidence,
		Reasoning:        outcome.Reasoning,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}, false
}
