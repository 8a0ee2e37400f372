package errors

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProviderError_IsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		errType   ErrorType
		retryable bool
	}{
		{"timeout", ErrorTypeTimeout, true},
		{"rate limit", ErrorTypeRateLimit, true},
		{"network", ErrorTypeNetwork, true},
		{"provider", ErrorTypeProvider, true},
		{"auth", ErrorTypeAuth, false},
		{"permission", ErrorTypePermission, false},
		{"quota", ErrorTypeQuota, false},
		{"protocol", ErrorTypeProtocol, false},
		{"validation", ErrorTypeValidation, false},
		{"unknown", ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ProviderError{Provider: "openai", Type: tt.errType}
			assert.Equal(t, tt.retryable, err.IsRetryable())
		})
	}
}

func TestProviderError_IsFatal(t *testing.T) {
	assert.True(t, (&ProviderError{Type: ErrorTypeAuth}).IsFatal())
	assert.True(t, (&ProviderError{Type: ErrorTypePermission}).IsFatal())
	assert.True(t, (&ProviderError{Type: ErrorTypeQuota}).IsFatal())
	assert.False(t, (&ProviderError{Type: ErrorTypeRateLimit}).IsFatal())
	assert.False(t, (&ProviderError{Type: ErrorTypeProtocol}).IsFatal())
}

func TestProviderError_GetRetryAfter(t *testing.T) {
	err := &ProviderError{Type: ErrorTypeRateLimit, RetryAfter: 30}
	assert.Equal(t, 30*time.Second, err.GetRetryAfter())

	none := &ProviderError{Type: ErrorTypeRateLimit}
	assert.Equal(t, time.Duration(0), none.GetRetryAfter())
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.True(t, IsRetryableError(ErrRateLimitExceeded))
	assert.True(t, IsRetryableError(ErrProviderUnavailable))
	assert.True(t, IsRetryableError(fmt.Errorf("wrapped: %w", &ProviderError{Type: ErrorTypeNetwork})))
	assert.False(t, IsRetryableError(fmt.Errorf("wrapped: %w", &ProviderError{Type: ErrorTypeAuth})))
	assert.False(t, IsRetryableError(fmt.Errorf("some other failure")))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(fmt.Errorf("wrapped: %w", &ProviderError{Type: ErrorTypeAuth})))
	assert.False(t, IsAuthError(fmt.Errorf("wrapped: %w", &ProviderError{Type: ErrorTypeRateLimit})))
	assert.False(t, IsAuthError(fmt.Errorf("plain failure")))
}

func TestIsProtocolError(t *testing.T) {
	assert.True(t, IsProtocolError(ErrInvalidResponse))
	assert.True(t, IsProtocolError(fmt.Errorf("wrapped: %w", ErrEmptyResponseContent)))
	assert.True(t, IsProtocolError(&ProviderError{Type: ErrorTypeProtocol}))
	assert.False(t, IsProtocolError(&ProviderError{Type: ErrorTypeTimeout}))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"provider error keeps its type", &ProviderError{Type: ErrorTypeRateLimit}, ErrorTypeRateLimit},
		{"deadline exceeded", context.DeadlineExceeded, ErrorTypeTimeout},
		{"rate limit sentinel", ErrRateLimitExceeded, ErrorTypeRateLimit},
		{"unavailable sentinel", ErrProviderUnavailable, ErrorTypeProvider},
		{"empty content sentinel", ErrEmptyResponseContent, ErrorTypeProtocol},
		{"anything else", fmt.Errorf("mystery"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}
