package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Recover returns middleware that converts a handler panic into a JSON 500
// response carrying only the panic message, never stack detail.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					msg := fmt.Sprintf("%v", rec)
					logger.Error("handler panic",
						"uri", r.URL.RequestURI(),
						"panic", msg,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]any{
						"errors": []string{msg},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
