package domain

// TokenUsage holds cumulative token counters for a session or report.
type TokenUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// Total returns the combined prompt and completion token count.
func (u TokenUsage) Total() int64 {
	return u.PromptTokens + u.CompletionTokens
}

// Add returns the sum of two usage counters.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return TokenUsage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
	}
}

// ReportSummary holds aggregate counts over a report's results.
type ReportSummary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`

	// PassRate is Passed over the judged count (Passed+Failed). Errored
	// results carry no verdict and are excluded. Zero when nothing was judged.
	PassRate float64 `json:"pass_rate"`
}

// Report is the final output of one document-validation run. Results appear
// in the same order as the input specs. Usage covers every exchange the
// session issued, context setup included. A report with Complete=false was
// cut short by cancellation or a fatal mid-run error and holds the results
// gathered up to that point.
type Report struct {
	Results  []ValidationResult `json:"results"`
	Usage    TokenUsage         `json:"usage"`
	Summary  ReportSummary      `json:"summary"`
	Complete bool               `json:"complete"`
}

// Result returns the result for the named spec, or nil if absent.
func (r *Report) Result(specName string) *ValidationResult {
	for i := range r.Results {
		if r.Results[i].SpecName == specName {
			return &r.Results[i]
		}
	}
	return nil
}
