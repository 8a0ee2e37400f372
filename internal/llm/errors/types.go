// Package errors defines the failure taxonomy for backend exchanges.
// Every backend error is classified into a retryable (transient), fatal
// (auth), or non-retryable protocol category so the engine can decide
// between retry, per-spec downgrade, and run abort without inspecting
// provider-specific payloads.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType categorizes backend failures for retry and abort classification.
type ErrorType string

const (
	// ErrorTypeTimeout indicates request timeout or deadline exceeded (retryable).
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeRateLimit indicates rate limit exceeded, retry with backoff (retryable).
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeNetwork indicates network connectivity issues (retryable).
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeProvider indicates provider service unavailable (retryable).
	ErrorTypeProvider ErrorType = "provider_unavailable"

	// ErrorTypeAuth indicates authentication failed (fatal, non-retryable).
	ErrorTypeAuth ErrorType = "authentication"

	// ErrorTypePermission indicates insufficient permissions (fatal, non-retryable).
	ErrorTypePermission ErrorType = "permission_denied"

	// ErrorTypeQuota indicates account quota exceeded (fatal, non-retryable).
	ErrorTypeQuota ErrorType = "quota_exceeded"

	// ErrorTypeProtocol indicates a malformed or unexpected reply shape (non-retryable).
	ErrorTypeProtocol ErrorType = "protocol"

	// ErrorTypeValidation indicates input validation failed (non-retryable).
	ErrorTypeValidation ErrorType = "validation_failed"

	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Common backend operation errors for consistent error handling.
var (
	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("provider service unavailable")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrUnknownProvider indicates an unknown or unsupported provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidResponse indicates the provider returned an invalid response.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrEmptyResponseContent indicates a reply with no text content.
	ErrEmptyResponseContent = errors.New("empty response content")

	// ErrNoMessages indicates a send attempt with an empty message sequence.
	ErrNoMessages = errors.New("message sequence cannot be empty")

	// ErrInvalidRole indicates a transcript turn whose role no adapter can
	// serialize.
	ErrInvalidRole = errors.New("message role is not recognized")

	// ErrMaxRetriesExceeded indicates maximum retry attempts exceeded.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
)

// ProviderError captures structured error responses from LLM providers.
// Includes HTTP status codes, provider-specific error codes, and retry timing
// to enable appropriate retry behavior and error diagnosis.
type ProviderError struct {
	Provider   string    `json:"provider"`    // Provider name
	StatusCode int       `json:"status_code"` // HTTP status code
	Message    string    `json:"message"`     // Error message
	Code       string    `json:"code"`        // Provider error code
	Type       ErrorType `json:"type"`        // Classified error type
	RetryAfter int       `json:"retry_after"` // Retry-After header value in seconds
}

// Error returns formatted provider error with status code context.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsRetryable determines if the provider error warrants a retry attempt.
func (e *ProviderError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeNetwork, ErrorTypeProvider:
		return true
	default:
		return false
	}
}

// IsFatal reports whether the error ends the whole run regardless of stage.
// Authentication-class failures cannot be fixed by retrying or by moving on
// to the next spec.
func (e *ProviderError) IsFatal() bool {
	switch e.Type {
	case ErrorTypeAuth, ErrorTypePermission, ErrorTypeQuota:
		return true
	default:
		return false
	}
}

// GetRetryAfter implements the RetryAfterProvider interface.
func (e *ProviderError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}
	return 0
}

// IsRetryableError determines if an error warrants a retry attempt.
// Examines error types and HTTP status codes to provide consistent retry
// decisions across all backend operations.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.IsRetryable()
	}

	if errors.Is(err, ErrRateLimitExceeded) || errors.Is(err, ErrProviderUnavailable) {
		return true
	}

	type statusCoder interface {
		StatusCode() int
	}
	if sc, ok := err.(statusCoder); ok {
		code := sc.StatusCode()
		return code == http.StatusTooManyRequests ||
			code == http.StatusRequestTimeout ||
			code == http.StatusGatewayTimeout ||
			code >= 500
	}

	// Conservative default - avoid retry loops for unknown errors.
	return false
}

// IsAuthError identifies fatal authentication-class failures.
func IsAuthError(err error) bool {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.IsFatal()
	}
	return false
}

// IsProtocolError identifies malformed-reply failures: non-retryable but
// local to one exchange.
func IsProtocolError(err error) bool {
	if errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrEmptyResponseContent) {
		return true
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type == ErrorTypeProtocol
	}
	return false
}

// ClassifyError maps any error to its taxonomy bucket for logging and
// reporting. Unrecognized errors classify as ErrorTypeUnknown.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.Is(err, ErrRateLimitExceeded):
		return ErrorTypeRateLimit
	case errors.Is(err, ErrProviderUnavailable):
		return ErrorTypeProvider
	case errors.Is(err, ErrInvalidResponse), errors.Is(err, ErrEmptyResponseContent):
		return ErrorTypeProtocol
	default:
		return ErrorTypeUnknown
	}
}

// GetRetryAfter extracts retry-after duration in seconds from provider errors,
// or 0 if no specific retry guidance is available.
func GetRetryAfter(err error) int {
	if err == nil {
		return 0
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.RetryAfter
	}
	return 0
}
