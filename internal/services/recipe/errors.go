package recipe

import (
	"strings"

	apperrors "github.com/socialchef/recipebook/internal/errors"
)

// Provider failure classes, used as log and metric labels.
const (
	ErrorClassRateLimit       = "rate_limit"
	ErrorClassCreditExhausted = "credit_exhausted"
	ErrorClassServerError     = "server_error"
	ErrorClassClientError     = "client_error"
	ErrorClassInvalidResponse = "invalid_response"
	ErrorClassUnknown         = "unknown"
)

// ProviderError represents a classified error from an AI provider
type ProviderError struct {
	Type     string
	Message  string
	Provider string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return e.Message
}

// ClassifyError labels a provider failure. It only feeds logs and metrics;
// nothing retries or falls back on the result.
func ClassifyError(err error, provider string) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()
	classified := func(t string) *ProviderError {
		return &ProviderError{Type: t, Message: msg, Provider: provider}
	}

	if containsAny(msg, "status 429", "http 429", "error 429", "rate limit", "too many requests", "resource_exhausted", "resource has been exhausted") {
		return classified(ErrorClassRateLimit)
	}

	if containsAny(msg, "status 402", "http 402", "insufficient credit", "insufficient_quota", "credit exhausted", "billing") {
		return classified(ErrorClassCreditExhausted)
	}

	// Provider transport failures are classified by their cause below;
	// other AppErrors by type and status.
	if appErr, ok := apperrors.As(err); ok && !strings.HasSuffix(appErr.ErrorCode, "PROVIDER_FAILED") {
		switch appErr.Type {
		case apperrors.ErrorTypeExtraction, apperrors.ErrorTypeClassification:
			return classified(ErrorClassInvalidResponse)
		}
		if appErr.StatusCode >= 500 {
			return classified(ErrorClassServerError)
		}
		if appErr.StatusCode >= 400 {
			return classified(ErrorClassClientError)
		}
	}

	if containsAny(msg, "status 5", "http 5", "error 50", "server error", "internal error", "unavailable") {
		return classified(ErrorClassServerError)
	}

	if containsAny(msg, "status 4", "http 4", "bad request", "unauthorized", "forbidden", "api key not valid", "permission_denied") {
		return classified(ErrorClassClientError)
	}

	return classified(ErrorClassUnknown)
}

// containsAny checks s for any of the substrings, case-insensitively
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
