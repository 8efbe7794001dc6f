package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/socialchef/recipebook/internal/errors"
	"github.com/socialchef/recipebook/internal/logger"
	"github.com/socialchef/recipebook/internal/sentry"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeAppError renders err with the status it maps to. prefix is prepended
// to the message of server errors only; an unsupported operation (501) is a
// rejection and is rendered as is.
func writeAppError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	status := apperrors.StatusCode(err)
	message := err.Error()

	if status >= http.StatusInternalServerError && !apperrors.IsType(err, apperrors.ErrorTypeUnsupported) {
		slog.ErrorContext(r.Context(), "Request failed",
			"path", r.URL.Path,
			"status", status,
			"error", err,
			logger.WithTraceContext(r.Context()),
		)
		sentry.CaptureError(r.Context(), err)
		message = prefix + message
	} else {
		slog.InfoContext(r.Context(), "Request rejected",
			"path", r.URL.Path,
			"status", status,
			"error", message,
		)
	}

	writeError(w, status, message)
}
