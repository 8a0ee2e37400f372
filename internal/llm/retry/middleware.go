// Package retry provides bounded retry with exponential backoff for backend
// exchanges. Only transient failures are retried; auth and protocol errors
// propagate immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/docvet/docvet/internal/llm/configuration"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	"github.com/docvet/docvet/internal/llm/transport"
)

var (
	// Configuration validation errors.
	errMaxAttemptsInvalid     = errors.New("maxAttempts must be greater than 0")
	errInitialIntervalInvalid = errors.New("initialInterval must be greater than 0")
	errMaxIntervalInvalid     = errors.New("maxInterval must be >= initialInterval")
	errMultiplierInvalid      = errors.New("multiplier must be >= 1.0")
	errMaxElapsedTimeInvalid  = errors.New("maxElapsedTime must be >= 0")

	// Runtime errors.
	errContextCancelledBeforeRetry = errors.New("context cancelled before retry")
	errContextCancelledDuringRetry = errors.New("context cancelled during retry")
	errAllRetriesExhausted         = errors.New("all retries exhausted")
	errUnexpectedRetryExhaustion   = errors.New("unexpected retry exhaustion")
)

// Middleware implements retry logic with exponential backoff. It
// respects provider-specific retry guidance like Retry-After headers and
// exposes aggregate attempt counters via Stats.
type Middleware struct {
	config configuration.RetryConfig
	logger *slog.Logger
	stats  *retryStats
}

// RetryAfterProvider defines an interface for error types that can provide
// a specific duration to wait before retrying. This allows servers to
// communicate backpressure, which the client respects.
type RetryAfterProvider interface {
	// GetRetryAfter returns the recommended duration to wait before the next
	// attempt, or zero when no specific duration is available.
	GetRetryAfter() time.Duration
}

// NewMiddleware creates retry middleware with the specified configuration.
// Implements exponential backoff with full jitter for optimal retry
// distribution.
func NewMiddleware(cfg configuration.RetryConfig, logger *slog.Logger) (*Middleware, error) {
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w, got %d", errMaxAttemptsInvalid, cfg.MaxAttempts)
	}
	if cfg.InitialInterval <= 0 {
		return nil, fmt.Errorf("%w, got %v", errInitialIntervalInvalid, cfg.InitialInterval)
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		return nil, fmt.Errorf("%w, MaxInterval: %v, InitialInterval: %v", errMaxIntervalInvalid, cfg.MaxInterval, cfg.InitialInterval)
	}
	if cfg.Multiplier < 1.0 {
		return nil, fmt.Errorf("%w, got %f", errMultiplierInvalid, cfg.Multiplier)
	}
	if cfg.MaxElapsedTime < 0 {
		return nil, fmt.Errorf("%w, got %v", errMaxElapsedTimeInvalid, cfg.MaxElapsedTime)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Middleware{
		config: cfg,
		logger: logger.With("component", "retry"),
		stats:  &retryStats{},
	}, nil
}

// Wrap returns next wrapped with the retry loop. The method value satisfies
// transport.Middleware so it can be chained directly.
func (r *Middleware) Wrap(next transport.Handler) transport.Handler {
	return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
		var lastErr error
		startTime := time.Now()

		// Fail fast if context is already cancelled to avoid wasted attempts.
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", errContextCancelledBeforeRetry, ctx.Err())
		default:
		}

		maxAttempts := r.config.MaxAttempts

		for attempt := 1; attempt <= maxAttempts; attempt++ {
			// Respect overall timeout to prevent indefinite retry loops.
			if r.config.MaxElapsedTime > 0 && time.Since(startTime) > r.config.MaxElapsedTime {
				r.logger.Warn("max elapsed time exceeded",
					"elapsed", time.Since(startTime),
					"attempts", attempt-1,
					"last_error", lastErr)
				break
			}

			resp, err := next.Handle(ctx, req)
			r.stats.totalAttempts.Add(1)

			if err == nil {
				if attempt > 1 {
					r.stats.successfulRetries.Add(1)
					r.logger.Info("request succeeded after retry",
						"attempt", attempt,
						"provider", req.Provider,
						"model", req.Model)
				} else {
					r.stats.successfulFirstAttempts.Add(1)
				}
				return resp, nil
			}

			// Avoid retrying errors that will always fail.
			if !r.isRetryable(err) {
				r.logger.Debug("non-retryable error",
					"error", err,
					"attempt", attempt,
					"provider", req.Provider)
				return nil, err
			}

			lastErr = err

			// Prevent unnecessary backoff calculation on final attempt.
			if attempt == maxAttempts {
				break
			}

			backoff := r.calculateBackoff(attempt, err)

			// Ensure backoff doesn't push us past the overall timeout.
			if r.config.MaxElapsedTime > 0 {
				elapsed := time.Since(startTime)
				if elapsed+backoff > r.config.MaxElapsedTime {
					// Provider retry-after may exceed the time budget - fall
					// back to exponential backoff when that still fits.
					exponentialBackoff := r.calculatePureExponentialBackoff(attempt)
					if elapsed+exponentialBackoff <= r.config.MaxElapsedTime {
						backoff = exponentialBackoff
					} else {
						r.logger.Warn("max elapsed time exceeded",
							"elapsed", elapsed,
							"attempts", attempt,
							"last_error", err)
						break
					}
				}
			}

			r.logger.Debug("retrying after backoff",
				"attempt", attempt,
				"backoff", backoff,
				"error", err,
				"provider", req.Provider)

			// Wait with context cancellation to enable graceful shutdown.
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", errContextCancelledDuringRetry, ctx.Err())
			}
		}

		if lastErr != nil {
			r.stats.failedRetries.Add(1)
			return nil, fmt.Errorf("%w after %d attempts: %w",
				errAllRetriesExhausted, maxAttempts, lastErr)
		}

		return nil, errUnexpectedRetryExhaustion
	})
}

// isRetryable evaluates error types to determine retry eligibility.
// Transient provider failures, timeouts, and network errors are retried;
// auth, protocol, and validation failures are not.
func (r *Middleware) isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var providerErr *llmerrors.ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.IsRetryable()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if errors.Is(err, llmerrors.ErrRateLimitExceeded) ||
		errors.Is(err, llmerrors.ErrProviderUnavailable) {
		return true
	}

	if isNetworkError(err) {
		return true
	}

	// Default: don't retry unknown errors.
	return false
}

// isNetworkError checks if an error is network-related using proper type
// assertions rather than fragile string matching alone.
func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var netErr net.Error
		if errors.As(urlErr.Err, &netErr) {
			return netErr.Timeout()
		}
		return isNetworkErrorByString(urlErr.Err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return isNetworkErrorByString(err.Error())
}

// isNetworkErrorByString checks for network errors using string patterns.
func isNetworkErrorByString(errStr string) bool {
	lowered := strings.ToLower(errStr)
	for _, indicator := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
	} {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}
	return false
}
