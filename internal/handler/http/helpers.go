// Package http exposes the REST API.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/kevalmehta17/EclipseStore/pkg/errors"
	"github.com/kevalmehta17/EclipseStore/pkg/logger"
	"github.com/kevalmehta17/EclipseStore/pkg/validator"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps service errors to HTTP responses. Internal errors are
// logged with context; their details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "validation failed",
			"errors":  vErr.Fields(),
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		writeMessage(w, status, appErr.Message)
		return
	}

	logger.WithContext(r.Context(), log).ErrorContext(r.Context(), "request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
	writeMessage(w, http.StatusInternalServerError, "internal server error")
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}
	return nil
}
