// Package handler contains the HTTP handlers for the data API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/folio/internal/apperror"
)

// ErrorResponse is the JSON body returned on every error path.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are out; nothing left to do but note it.
		slog.Error("encoding response failed", slog.String("error", err.Error()))
	}
}

// writeError maps an error onto its HTTP representation. The mapping
// depends only on which sentinel the error wraps, so every handler
// returns the same shape for the same failure class.
func writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"

	switch {
	case errors.Is(err, apperror.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrNotAuthorised):
		status, code = http.StatusUnauthorized, "not_authorised"
	case errors.Is(err, apperror.ErrExternal):
		status, code = http.StatusInternalServerError, "external_error"
	}

	var appErr *apperror.AppError
	message := "something went wrong"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
