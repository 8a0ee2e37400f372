// Package session manages one document-scoped conversation with a backend.
// A session owns a growing transcript: the document is sent exactly once
// during context setup, and every later question rides on the accumulated
// history instead of re-sending the payload.
package session

import (
	"context"
	"fmt"
	"sync"

	"log/slog"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/llm"
	"github.com/docvet/docvet/internal/llm/transport"
)

// ErrContextNotEstablished is returned by Ask before a successful
// EstablishContext. Questions without document context are meaningless.
var ErrContextNotEstablished = fmt.Errorf("session: context not established")

// ContextSetupError marks a fatal failure during context establishment.
// No validation can proceed without document context, so callers abort the
// run when they see this.
type ContextSetupError struct {
	Cause error
}

func (e *ContextSetupError) Error() string {
	return fmt.Sprintf("context setup failed: %v", e.Cause)
}

func (e *ContextSetupError) Unwrap() error { return e.Cause }

// ExchangeUsage reports the token cost of a single exchange.
type ExchangeUsage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// Session is a single-document conversation. It is created per validation
// run and discarded afterward. All exchanges are strictly sequential; the
// internal mutex serializes callers so the transcript can never interleave.
type Session struct {
	client   llm.Client
	provider string
	model    string
	logger   *slog.Logger

	mu          sync.Mutex
	established bool
	messages    []domain.Message
	tracker     *Tracker
}

// Config carries per-session backend selection. Zero values defer to the
// client's configured defaults.
type Config struct {
	Provider string
	Model    string
}

// New creates a session bound to one backend client. A nil logger falls
// back to slog.Default.
func New(client llm.Client, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client:   client,
		provider: cfg.Provider,
		model:    cfg.Model,
		logger:   logger.With("component", "session"),
		tracker:  NewTracker(),
	}
}

// EstablishContext performs the first exchange: a fixed instruction plus
// the rendered document structure. The transcript is only extended after
// the backend accepts the exchange, so a failed attempt leaves the session
// clean for a full re-attempt.
func (s *Session) EstablishContext(ctx context.Context, doc domain.DocumentStructure) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.established {
		return fmt.Errorf("session: context already established")
	}

	rendered, err := doc.Render()
	if err != nil {
		return &ContextSetupError{Cause: err}
	}

	pending := []domain.Message{
		{Role: domain.RoleSystem, Content: systemInstruction},
		{Role: domain.RoleContext, Content: contextPrompt(rendered)},
	}

	resp, err := s.exchange(ctx, pending)
	if err != nil {
		return &ContextSetupError{Cause: err}
	}

	s.messages = append(s.messages, pending...)
	s.messages = append(s.messages, domain.Message{
		Role:    domain.RoleAssistant,
		Content: resp.Content,
	})
	s.tracker.Add(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	s.established = true

	s.logger.Debug("context established",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return nil
}

// Ask issues one validation question against the accumulated transcript and
// returns the raw reply with its token cost. A failed exchange leaves the
// transcript untouched, so retrying an Ask never poisons the history with
// unanswered turns.
func (s *Session) Ask(ctx context.Context, spec domain.ValidationSpec) (string, ExchangeUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.established {
		return "", ExchangeUsage{}, ErrContextNotEstablished
	}

	question := domain.Message{
		Role:    domain.RoleUser,
		Content: validationPrompt(spec),
	}

	resp, err := s.exchange(ctx, append(s.copyMessages(), question))
	if err != nil {
		return "", ExchangeUsage{}, fmt.Errorf("ask %q: %w", spec.Name, err)
	}

	s.messages = append(s.messages, question, domain.Message{
		Role:    domain.RoleAssistant,
		Content: resp.Content,
	})
	usage := ExchangeUsage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}
	s.tracker.Add(usage.PromptTokens, usage.CompletionTokens)

	return resp.Content, usage, nil
}

// exchange sends one transcript to the backend. Callers hold s.mu.
func (s *Session) exchange(ctx context.Context, messages []domain.Message) (*transport.Response, error) {
	return s.client.Complete(ctx, &transport.Request{
		Provider: s.provider,
		Model:    s.model,
		Messages: messages,
	})
}

// Established reports whether context setup has completed.
func (s *Session) Established() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.established
}

// Usage returns cumulative token counters across all exchanges so far,
// context setup included.
func (s *Session) Usage() domain.TokenUsage {
	return s.tracker.Snapshot()
}

// Messages returns a copy of the transcript for inspection and transcript
// logging. The session's own slice is never exposed.
func (s *Session) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyMessages()
}

func (s *Session) copyMessages() []domain.Message {
	return append([]domain.Message(nil), s.messages...)
}
