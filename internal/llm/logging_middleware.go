package llm

import (
	"context"
	"time"

	"log/slog"

	"github.com/docvet/docvet/internal/llm/configuration"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	"github.com/docvet/docvet/internal/llm/transport"
)

// NewLoggingMiddleware returns middleware that emits one structured summary
// entry per logical exchange. Prompt and response text are redacted unless
// observability config says otherwise.
func NewLoggingMiddleware(obs configuration.ObservabilityConfig, logger *slog.Logger) transport.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			start := time.Now()

			attrs := []any{
				"provider", req.Provider,
				"model", req.Model,
				"messages", len(req.Messages),
			}
			if req.TraceID != "" {
				attrs = append(attrs, "trace_id", req.TraceID)
			}
			if obs.LogTranscripts && !obs.RedactPrompts {
				attrs = append(attrs, "transcript", transcriptPreview(req))
			}

			logger.DebugContext(ctx, "backend exchange started", attrs...)

			resp, err := next.Handle(ctx, req)
			elapsed := time.Since(start)

			if err != nil {
				errAttrs := append(attrs,
					"duration_ms", elapsed.Milliseconds(),
					"error", err,
					"error_type", string(llmerrors.ClassifyError(err)),
				)
				logger.ErrorContext(ctx, "backend exchange failed", errAttrs...)
				return nil, err
			}

			okAttrs := append(attrs,
				"duration_ms", elapsed.Milliseconds(),
				"finish_reason", string(resp.FinishReason),
				"prompt_tokens", resp.Usage.PromptTokens,
				"completion_tokens", resp.Usage.CompletionTokens,
			)
			if obs.LogTranscripts && !obs.RedactPrompts {
				okAttrs = append(okAttrs, "response", resp.Content)
			}
			logger.InfoContext(ctx, "backend exchange completed", okAttrs...)

			return resp, nil
		})
	}
}

// transcriptPreview flattens a message sequence for debug logging.
func transcriptPreview(req *transport.Request) []string {
	preview := make([]string, 0, len(req.Messages))
	for _, msg := range req.Messages {
		preview = append(preview, string(msg.Role)+": "+msg.Content)
	}
	return preview
}
