package llm

import (
	"context"
	"sync"

	"github.com/docvet/docvet/internal/domain"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	"github.com/docvet/docvet/internal/llm/transport"
)

// ScriptStep is one canned exchange outcome for a ScriptedClient. Exactly one
// of Content or Err is consumed per Complete call.
type ScriptStep struct {
	Content          string
	Err              error
	PromptTokens     int64
	CompletionTokens int64
}

// ScriptedClient is a deterministic in-memory Client for tests and dry runs.
// It replays a fixed script of outcomes in order and records every request it
// receives, so callers can assert transcript growth and exchange ordering.
type ScriptedClient struct {
	mu       sync.Mutex
	script   []ScriptStep
	next     int
	requests []*transport.Request
}

// NewScriptedClient builds a client that replays steps in order. Calls past
// the end of the script return ErrProviderUnavailable.
func NewScriptedClient(steps ...ScriptStep) *ScriptedClient {
	return &ScriptedClient{script: steps}
}

// Complete implements Client by consuming the next scripted step.
func (s *ScriptedClient) Complete(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil || len(req.Messages) == 0 {
		return nil, llmerrors.ErrNoMessages
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot the transcript so later caller-side mutations do not rewrite
	// what was recorded.
	recorded := *req
	recorded.Messages = append([]domain.Message(nil), req.Messages...)
	s.requests = append(s.requests, &recorded)

	if s.next >= len(s.script) {
		return nil, llmerrors.ErrProviderUnavailable
	}
	step := s.script[s.next]
	s.next++

	if step.Err != nil {
		return nil, step.Err
	}

	return &transport.Response{
		Content:      step.Content,
		Model:        req.Model,
		FinishReason: domain.FinishStop,
		Usage: transport.NormalizedUsage{
			PromptTokens:     step.PromptTokens,
			CompletionTokens: step.CompletionTokens,
			TotalTokens:      step.PromptTokens + step.CompletionTokens,
		},
	}, nil
}

// Requests returns a copy of every request received so far, in order.
func (s *ScriptedClient) Requests() []*transport.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*transport.Request(nil), s.requests...)
}

// Calls reports how many Complete calls have been made.
func (s *ScriptedClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
