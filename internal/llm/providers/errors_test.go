package providers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	llmerrors "github.com/docvet/docvet/internal/llm/errors"
)

func TestClassifyErrorType(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		errorCode  string
		want       llmerrors.ErrorType
	}{
		{"rate limit by code", http.StatusOK, "rate_limit_exceeded", llmerrors.ErrorTypeRateLimit},
		{"timeout by code", http.StatusOK, "request_timeout", llmerrors.ErrorTypeTimeout},
		{"auth by code", http.StatusOK, "unauthorized_access", llmerrors.ErrorTypeAuth},
		{"quota by code", http.StatusOK, "quota_exceeded", llmerrors.ErrorTypeQuota},
		{"rate limit by status", http.StatusTooManyRequests, "", llmerrors.ErrorTypeRateLimit},
		{"auth by status", http.StatusUnauthorized, "", llmerrors.ErrorTypeAuth},
		{"permission by status", http.StatusForbidden, "", llmerrors.ErrorTypePermission},
		{"validation by status", http.StatusBadRequest, "", llmerrors.ErrorTypeValidation},
		{"provider by 500", http.StatusInternalServerError, "", llmerrors.ErrorTypeProvider},
		{"provider by 503", http.StatusServiceUnavailable, "", llmerrors.ErrorTypeProvider},
		{"provider by other 5xx", 599, "", llmerrors.ErrorTypeProvider},
		{"unknown otherwise", http.StatusTeapot, "", llmerrors.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyErrorType(tt.statusCode, tt.errorCode))
		})
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"absent", "", 0},
		{"integer seconds", "30", 30},
		{"zero", "0", 0},
		{"http date is ignored", "Wed, 21 Oct 2026 07:28:00 GMT", 0},
		{"garbage is ignored", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.header != "" {
				headers.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, retryAfterSeconds(headers))
		})
	}
}
