// Package httputil holds the JSON envelope helpers used by every handler:
// {success: true, ...payload} on success and {success: false, error} on failure.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gracecity/church-backend/internal/apperr"
)

const fallbackNotice = "Database is unreachable; showing temporary data that will not be saved permanently."

// Fields is a response payload merged into the envelope next to "success".
type Fields map[string]any

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

// Success writes {success: true, ...fields}.
func Success(w http.ResponseWriter, status int, fields Fields) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	JSON(w, status, body)
}

// Fail writes {success: false, error: msg}.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"success": false, "error": msg})
}

// Error maps err through the apperr taxonomy. Server-side failures are logged with their cause.
func Error(w http.ResponseWriter, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[http] %d: %v", status, err)
	}
	Fail(w, status, apperr.Message(err))
}

// WithFallback flags a payload that was served from the in-memory fallback store.
func WithFallback(fields Fields, fallback bool) Fields {
	if fallback {
		fields["fallback"] = true
		fields["notice"] = fallbackNotice
	}
	return fields
}

// Decode reads a JSON body into dst.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is required")
		}
		return apperr.Validation("Invalid request body")
	}
	return nil
}
