// Package handler contains the HTTP layer: decoding requests, invoking
// services, and encoding responses. No business rules live here.
package handler

// RESPONSE CONVENTIONS:
// Every failure has the same envelope, whatever the status code:
//
//	{"success": false, "message": "...", "errors": [{"field": "...", "message": "..."}]}
//
// The errors array appears only on validation failures. Success payloads
// are the resource itself (or {posts, pagination} for listings), so
// clients branch on status code, not body shape.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shreyash/bloghub/internal/apperror"
)

// FieldError points a validation failure at the offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorBody is the uniform failure envelope.
type errorBody struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// responder centralizes JSON encoding and the domain-error → HTTP mapping.
// devDetail attaches the raw error string to 500 bodies; it must be off in
// production, where internal errors may carry SQL or file paths.
type responder struct {
	logger    *slog.Logger
	devDetail bool
}

func newResponder(logger *slog.Logger, devDetail bool) responder {
	return responder{logger: logger, devDetail: devDetail}
}

// Headers and status go out before the body; once Encode writes, header
// changes are silently ignored.
func (rs responder) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			rs.logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a service error into the failure envelope.
//
// STATUS MAPPING:
//
//	ErrValidation   → 400 (with the errors array)
//	ErrConflict     → 400 (duplicate email/username/category name)
//	ErrUnauthorized → 401
//	ErrForbidden    → 403
//	ErrNotFound     → 404
//	anything else   → 500, generic message, detail only in dev mode
//
// Conflicts deliberately share 400 with validation failures: to the client
// a taken email is just another reason the submitted form is invalid.
func (rs responder) writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body := errorBody{Message: appErr.Message}

		switch {
		case errors.Is(err, apperror.ErrValidation):
			body.Errors = []FieldError{{Field: appErr.Field, Message: appErr.Message}}
			rs.writeJSON(w, http.StatusBadRequest, body)
		case errors.Is(err, apperror.ErrConflict):
			rs.writeJSON(w, http.StatusBadRequest, body)
		case errors.Is(err, apperror.ErrUnauthorized):
			rs.writeJSON(w, http.StatusUnauthorized, body)
		case errors.Is(err, apperror.ErrForbidden):
			rs.writeJSON(w, http.StatusForbidden, body)
		case errors.Is(err, apperror.ErrNotFound):
			rs.writeJSON(w, http.StatusNotFound, body)
		default:
			rs.internalError(w, err)
		}
		return
	}

	rs.internalError(w, err)
}

func (rs responder) internalError(w http.ResponseWriter, err error) {
	rs.logger.Error("request failed", slog.String("error", err.Error()))

	body := errorBody{Message: "Something went wrong"}
	if rs.devDetail {
		body.Error = err.Error()
	}
	rs.writeJSON(w, http.StatusInternalServerError, body)
}

// writeInvalidBody rejects requests whose JSON couldn't be decoded at all.
func (rs responder) writeInvalidBody(w http.ResponseWriter) {
	rs.writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
}

// messageBody is the {success:true, message} shape used by deletes.
type messageBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func successMessage(message string) messageBody {
	return messageBody{Success: true, Message: message}
}
