package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{
		Message: "something went wrong",
	}
	if err.Error() != "something went wrong" {
		t.Errorf("expected 'something went wrong', got %v", err.Error())
	}

	wrappedErr := errors.New("underlying error")
	errWithWrap := &AppError{
		Message: "failed operation",
		Err:     wrappedErr,
	}
	expected := "failed operation: underlying error"
	if errWithWrap.Error() != expected {
		t.Errorf("expected %q, got %q", expected, errWithWrap.Error())
	}
}

func TestAppError_Code(t *testing.T) {
	err := &AppError{
		ErrorCode: "ERR_CODE_123",
	}
	if err.Code() != "ERR_CODE_123" {
		t.Errorf("expected ERR_CODE_123, got %v", err.Code())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError("Failed to fetch URL", "FETCH_FAILED", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad", "BAD", ""), http.StatusBadRequest},
		{"missing key", NewMissingKeyError("no key", "NO_KEY"), http.StatusBadRequest},
		{"settings not found", NewConfigurationNotFoundError("none", "NO_SETTINGS"), http.StatusNotFound},
		{"unsupported", NewUnsupportedOperationError("nope", "UNSUPPORTED"), http.StatusNotImplemented},
		{"not found", NewNotFoundError("empty", "EMPTY", ""), http.StatusNotFound},
		{"fetch", NewFetchError("fetch", "FETCH", nil), http.StatusInternalServerError},
		{"extraction", NewExtractionError("extract", "EXTRACT", nil), http.StatusInternalServerError},
		{"classification", NewClassificationError("classify", "CLASSIFY", nil), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", NewUnsupportedOperationError("nope", "UNSUPPORTED")), http.StatusNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("item failed: %w", NewExtractionError("no recipe", "NO_RECIPE", nil))

	if !IsType(err, ErrorTypeExtraction) {
		t.Error("expected extraction error type")
	}
	if IsType(err, ErrorTypeFetch) {
		t.Error("did not expect fetch error type")
	}
	if IsType(errors.New("plain"), ErrorTypeExtraction) {
		t.Error("plain errors carry no type")
	}
}

func TestConstructors(t *testing.T) {
	t.Run("NewValidationError", func(t *testing.T) {
		err := NewValidationError("invalid input", "VAL_001", "check input")
		if err.Type != ErrorTypeValidation {
			t.Errorf("expected type %v, got %v", ErrorTypeValidation, err.Type)
		}
		if err.RecoverySuggestion() != "check input" {
			t.Errorf("expected suggestion 'check input', got %v", err.RecoverySuggestion())
		}
		if !err.IsOperational {
			t.Error("expected IsOperational to be true")
		}
	})

	t.Run("NewMissingKeyError", func(t *testing.T) {
		err := NewMissingKeyError("OpenAI APIキーが設定されていません。", "MISSING_API_KEY")
		if err.Type != ErrorTypeConfiguration {
			t.Errorf("expected type %v, got %v", ErrorTypeConfiguration, err.Type)
		}
		if err.Error() != "OpenAI APIキーが設定されていません。" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("NewInternalError", func(t *testing.T) {
		cause := errors.New("db down")
		err := NewInternalError("failed to save", cause)
		if err.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", err.StatusCode)
		}
		if err.IsOperational {
			t.Error("internal errors are not operational")
		}
	})
}
