package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/docvet/docvet/internal/domain"
)

var (
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	errorColor = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
)

// renderReport prints a human-readable report: one line per spec, then the
// summary and token accounting.
func renderReport(w io.Writer, rep *domain.Report) {
	for _, res := range rep.Results {
		marker, c := statusMarker(res.Status)
		c.Fprintf(w, "%s %s", marker, res.SpecName)
		if res.Confidence != nil {
			dimColor.Fprintf(w, "  (confidence %.2f)", *res.Confidence)
		}
		fmt.Fprintln(w)
		if res.Reasoning != "" {
			dimColor.Fprintf(w, "    %s\n", res.Reasoning)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d errored",
		rep.Summary.Passed, rep.Summary.Failed, rep.Summary.Errored)
	if !rep.Complete {
		errorColor.Fprint(w, "  [partial]")
	}
	fmt.Fprintln(w)
	dimColor.Fprintf(w, "tokens: %d prompt + %d completion = %d total\n",
		rep.Usage.PromptTokens, rep.Usage.CompletionTokens, rep.Usage.Total())
}

func statusMarker(status domain.Status) (string, *color.Color) {
	switch status {
	case domain.StatusPass:
		return "✓", passColor
	case domain.StatusFail:
		return "✗", failColor
	default:
		return "⚠", errorColor
	}
}
