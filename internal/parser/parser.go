// Package parser extracts structured validation outcomes from free-form
// model replies. Extraction is deterministic: the same raw text always
// yields the same outcome, with no calls back to any backend.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/docvet/docvet/internal/domain"
)

// Outcome is the structured result recovered from one model reply.
// Confidence is nil when the reply carried none or an out-of-range value;
// values are never clamped into range.
type Outcome struct {
	Status     domain.Status
	Confidence *float64
	Reasoning  string
}

// ParseError reports a reply from which no verdict could be recovered.
// It carries a preview of the raw text for diagnostics.
type ParseError struct {
	Reason  string
	Preview string
}

func (e *ParseError) Error() string {
	if e.Preview == "" {
		return fmt.Sprintf("unparseable reply: %s", e.Reason)
	}
	return fmt.Sprintf("unparseable reply: %s (text: %q)", e.Reason, e.Preview)
}

const previewLimit = 120

var (
	// Verdict tokens match as whole words in any case. Common inflections
	// count; substrings inside larger words ("compassion") do not.
	passPattern = regexp.MustCompile(`(?i)\b(?:pass(?:ed|es)?)\b`)
	failPattern = regexp.MustCompile(`(?i)\b(?:fail(?:ed|s)?)\b`)

	// Confidence is only trusted when explicitly labeled; bare numbers in
	// prose are ignored.
	confidencePattern = regexp.MustCompile(`(?i)\bconfidence\b\s*(?:[:=]|is)?\s*([0-9]*\.?[0-9]+)`)

	// Reasoning captures from a label through the end of its block.
	reasoningPattern = regexp.MustCompile(`(?is)\breason(?:ing)?\b\s*[:=]\s*(.+?)(?:\n\s*\n|\z)`)
)

// Parse recovers a verdict from raw reply text. The earliest verdict token
// by position wins when both appear; replies with neither token are
// unparseable and surface as a ParseError, never as a verdict.
func Parse(raw string) (*Outcome, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{Reason: "empty reply"}
	}

	status, ok := extractStatus(trimmed)
	if !ok {
		return nil, &ParseError{Reason: "no verdict token", Preview: preview(trimmed)}
	}

	return &Outcome{
		Status:     status,
		Confidence: extractConfidence(trimmed),
		Reasoning:  extractReasoning(trimmed),
	}, nil
}

func extractStatus(text string) (domain.Status, bool) {
	passLoc := passPattern.FindStringIndex(text)
	failLoc := failPattern.FindStringIndex(text)

	switch {
	case passLoc == nil && failLoc == nil:
		return "", false
	case failLoc == nil:
		return domain.StatusPass, true
	case passLoc == nil:
		return domain.StatusFail, true
	case passLoc[0] < failLoc[0]:
		return domain.StatusPass, true
	default:
		return domain.StatusFail, true
	}
}

func extractConfidence(text string) *float64 {
	match := confidencePattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value < 0 || value > 1 {
		return nil
	}
	return &value
}

func extractReasoning(text string) string {
	if match := reasoningPattern.FindStringSubmatch(text); match != nil {
		reason := strings.TrimSpace(match[1])
		if reason != "" {
			return reason
		}
	}
	// No labeled rationale; keep the whole reply so nothing the model said
	// is lost from the report.
	return text
}

func preview(text string) string {
	if len(text) <= previewLimit {
		return text
	}
	// Back off to a rune boundary so the preview stays valid UTF-8.
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
