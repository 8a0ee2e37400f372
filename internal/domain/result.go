package domain

import (
	"errors"
	"fmt"
)

// Result-specific errors.
var (
	// ErrInvalidStatus is returned when a result carries an unknown status.
	ErrInvalidStatus = errors.New("invalid result status")

	// ErrConfidenceOutOfRange is returned when confidence falls outside [0, 1].
	ErrConfidenceOutOfRange = errors.New("confidence must be between 0 and 1")
)

// Status is the outcome of validating one spec against a document.
type Status string

const (
	// StatusPass indicates the backend judged the document to satisfy the spec.
	StatusPass Status = "PASS"

	// StatusFail indicates the backend judged the document to violate the spec.
	StatusFail Status = "FAIL"

	// StatusError indicates the exchange or its interpretation failed;
	// the spec could not be judged either way.
	StatusError Status = "ERROR"
)

// IsValidStatus reports whether the status is a recognized outcome.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusPass, StatusFail, StatusError:
		return true
	default:
		return false
	}
}

// ValidationResult records the outcome of one spec's validation exchange.
// Results are created once per spec per run and never mutated afterwards.
type ValidationResult struct {
	// SpecName matches the Name of the input spec this result answers.
	SpecName string `json:"spec_name"`

	// Status is PASS, FAIL, or ERROR.
	Status Status `json:"status"`

	// Confidence is the backend's self-reported confidence in [0, 1],
	// or nil when absent or out of range.
	Confidence *float64 `json:"confidence,omitempty"`

	// Reasoning is the backend's explanation, or a diagnostic message for
	// ERROR results.
	Reasoning string `json:"reasoning"`

	// PromptTokens and CompletionTokens record the usage of this spec's
	// exchange only; context-setup usage is accounted at the session level.
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Validate checks structural invariants of the result.
func (r ValidationResult) Validate() error {
	if r.SpecName == "" {
		return ErrSpecNameEmpty
	}
	if !IsValidStatus(r.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, r.Status)
	}
	if r.Confidence != nil && (*r.Confidence < 0 || *r.Confidence > 1) {
		return fmt.Errorf("%w: got %f", ErrConfidenceOutOfRange, *r.Confidence)
	}
	return nil
}
