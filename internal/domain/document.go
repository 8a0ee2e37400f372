package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when a document structure has no content.
var ErrEmptyDocument = errors.New("document structure is empty")

// DocumentStructure is the pre-parsed representation of a subject document:
// a nested mapping of primitives, sequences, and further mappings. It is
// owned by the caller and referenced read-only by the validation core.
type DocumentStructure map[string]any

// Render serializes the document structure into the textual form sent to the
// backend during context setup. The rendering is deterministic for a given
// structure (JSON with sorted keys) so retried context setups resend an
// identical payload.
func (d DocumentStructure) Render() (string, error) {
	if len(d) == 0 {
		return "", ErrEmptyDocument
	}
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to render document structure: %w", err)
	}
	return string(out), nil
}
