// Package handler contains the HTTP layer: request decoding, calling
// the services, and encoding responses. No business rules live here.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/country-explorer/internal/apperror"
)

// ErrorResponse is the error format returned by all API endpoints:
//
//	{"error": "conflict", "message": "Country already in favorites"}
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code. Headers
// must be set before the first body write, so the order here is fixed.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// The services return apperror sentinels; this is the single place
// they become status codes. Conflicts map to 400 rather than 409 — the
// API's clients treat every rejected write as a plain bad request and
// read the message, so the published contract pins 400. Upstream
// provider failures become 502 to distinguish "their outage" from
// "our bug".
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
			errorType = "conflict"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusBadGateway
			errorType = "upstream_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — generic 500, never expose internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// decodeJSON reads the request body into dst, rejecting malformed JSON
// with a validation error the caller can pass straight to writeError.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("", "Invalid request body")
	}
	return nil
}
