// Package domain defines the core types for LLM-backed document validation:
// specs, conversation messages, per-spec results, and the final report.
// All types are pure data with validation helpers and no I/O.
package domain

import (
	"errors"
	"fmt"
)

// Spec-related errors.
var (
	// ErrSpecNameEmpty is returned when a spec has no name.
	ErrSpecNameEmpty = errors.New("spec name cannot be empty")

	// ErrSpecDescriptionEmpty is returned when a spec has no description.
	ErrSpecDescriptionEmpty = errors.New("spec description cannot be empty")

	// ErrDuplicateSpecName is returned when two specs in one run share a name.
	ErrDuplicateSpecName = errors.New("duplicate spec name")
)

// ValidationSpec is one named requirement to check against a document.
// Specs are immutable; the order they are supplied in defines evaluation order.
type ValidationSpec struct {
	// Name uniquely identifies the spec within a run.
	Name string `json:"name" yaml:"name"`

	// Description is the natural-language requirement the backend judges.
	Description string `json:"description" yaml:"description"`

	// Category groups related specs (e.g. "metadata", "formatting").
	Category string `json:"category" yaml:"category"`
}

// Validate checks that the spec carries the fields a validation exchange needs.
func (s ValidationSpec) Validate() error {
	if s.Name == "" {
		return ErrSpecNameEmpty
	}
	if s.Description == "" {
		return fmt.Errorf("%w: spec %q", ErrSpecDescriptionEmpty, s.Name)
	}
	return nil
}

// IsSpecListError reports whether err is a spec validation failure.
// Callers use it to distinguish bad input from backend trouble.
func IsSpecListError(err error) bool {
	return errors.Is(err, ErrSpecNameEmpty) ||
		errors.Is(err, ErrSpecDescriptionEmpty) ||
		errors.Is(err, ErrDuplicateSpecName)
}

// ValidateSpecList checks every spec and enforces name uniqueness across the run.
func ValidateSpecList(specs []ValidationSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("spec %d: %w", i, err)
		}
		if _, ok := seen[spec.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateSpecName, spec.Name)
		}
		seen[spec.Name] = struct{}{}
	}
	return nil
}
