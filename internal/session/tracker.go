package session

import (
	"sync"

	"github.com/docvet/docvet/internal/domain"
)

// Tracker accumulates token usage across exchanges. Safe for concurrent
// reads while a run is in flight, so progress reporting never races the
// session's own writes.
type Tracker struct {
	mu    sync.Mutex
	usage domain.TokenUsage
}

// NewTracker returns a zeroed tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Add records one exchange's token cost.
func (t *Tracker) Add(promptTokens, completionTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.usage.PromptTokens += promptTokens
	t.usage.CompletionTokens += completionTokens
}

// Snapshot returns the current totals by value.
func (t *Tracker) Snapshot() domain.TokenUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usage
}
