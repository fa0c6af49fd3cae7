// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the uniform error body returned for failed requests.
type ErrorResponse struct {
	Errors []string `json:"errors"`
}

// RespondJSON writes value as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

// RespondError logs err and writes it as a JSON error body with the given
// status code. Only the error message is exposed to the caller.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("request failed", "status", status, "error", err)
	RespondJSON(w, status, ErrorResponse{Errors: []string{err.Error()}})
}

// RespondErrors writes a list of error strings as a JSON error body with the
// given status code.
func RespondErrors(w http.ResponseWriter, status int, errs []string) {
	RespondJSON(w, status, ErrorResponse{Errors: errs})
}
