// Package report assembles validation results into immutable reports.
// Aggregation is a pure function over already-collected data, with no I/O
// and no retries.
package report

import (
	"github.com/docvet/docvet/internal/domain"
)

// Aggregate builds a report from per-spec results and session token totals.
// Result order is preserved exactly as given, which matches spec input
// order by construction. complete is false when the run stopped before
// exhausting its spec list.
func Aggregate(results []domain.ValidationResult, usage domain.TokenUsage, complete bool) *domain.Report {
	summary := domain.ReportSummary{}
	for _, r := range results {
		switch r.Status {
		case domain.StatusPass:
			summary.Passed++
		case domain.StatusFail:
			summary.Failed++
		default:
			summary.Errored++
		}
	}

	judged := summary.Passed + summary.Failed
	if judged > 0 {
		summary.PassRate = float64(summary.Passed) / float64(judged)
	}

	return &domain.Report{
		Results:  append([]domain.ValidationResult(nil), results...),
		Usage:    usage,
		Summary:  summary,
		Complete: complete,
	}
}
