package retry

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/docvet/docvet/internal/llm/configuration"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
)

// calculateBackoff computes the retry delay using exponential backoff with
// full jitter. Provider Retry-After guidance takes precedence when present.
// Thread-safe via math/rand/v2.
func (r *Middleware) calculateBackoff(attempt int, err error) time.Duration {
	// Ensure minimum interval to prevent hot looping.
	baseBackoff := r.config.InitialInterval
	if baseBackoff <= 0 {
		baseBackoff = time.Millisecond
	}

	for i := 1; i < attempt; i++ {
		multiplier := r.config.Multiplier
		if multiplier < 1.0 {
			multiplier = 1.0
		}
		baseBackoff = time.Duration(float64(baseBackoff) * multiplier)
		if baseBackoff > r.config.MaxInterval {
			baseBackoff = r.config.MaxInterval
			break
		}
	}

	exponentialBackoff := baseBackoff
	if r.config.UseJitter {
		// Full jitter: random between 0 and calculated backoff.
		jitterMs := rand.Int64N(baseBackoff.Milliseconds() + 1) // #nosec G404 -- non-cryptographic jitter is appropriate here
		exponentialBackoff = time.Duration(jitterMs) * time.Millisecond
	}

	if retryAfter := r.extractRetryAfter(err); retryAfter > 0 {
		return retryAfter
	}

	return exponentialBackoff
}

// calculatePureExponentialBackoff ignores Retry-After guidance. Used as a
// fallback when a provider-specified delay conflicts with the elapsed-time
// budget.
func (r *Middleware) calculatePureExponentialBackoff(attempt int) time.Duration {
	backoff := r.config.InitialInterval
	for i := 1; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * r.config.Multiplier)
		if backoff > r.config.MaxInterval {
			backoff = r.config.MaxInterval
			break
		}
	}

	if r.config.UseJitter {
		jitterMs := rand.Int64N(backoff.Milliseconds() + 1) // #nosec G404 -- non-cryptographic jitter is appropriate here
		return time.Duration(jitterMs) * time.Millisecond
	}

	return backoff
}

// extractRetryAfter determines provider-specified retry delays from error
// responses.
func (r *Middleware) extractRetryAfter(err error) time.Duration {
	var provider RetryAfterProvider
	if errors.As(err, &provider) {
		return provider.GetRetryAfter()
	}

	var providerErr *llmerrors.ProviderError
	if errors.As(err, &providerErr) && providerErr.RetryAfter > 0 {
		return time.Duration(providerErr.RetryAfter) * time.Second
	}

	return 0
}

// ExponentialBackoff calculates retry delays using exponential backoff with
// optional full jitter. Returns zero for non-positive attempt numbers.
func ExponentialBackoff(attempt int, config configuration.RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := config.InitialInterval
	for i := 1; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * config.Multiplier)
		if backoff > config.MaxInterval {
			return config.MaxInterval
		}
	}

	if config.UseJitter {
		jitterMs := rand.Int64N(backoff.Milliseconds() + 1) // #nosec G404 -- non-cryptographic jitter is appropriate here
		return time.Duration(jitterMs) * time.Millisecond
	}

	return backoff
}
