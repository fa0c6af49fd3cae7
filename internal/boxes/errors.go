package boxes

import (
	"errors"
	"net/http"
)

var (
	// ErrBoxNotFound indicates no box record matched.
	ErrBoxNotFound = errors.New("box not found")
	// ErrMissingSearchValue indicates an empty search string.
	ErrMissingSearchValue = errors.New("search value is required")
)

// MapHTTPStatus maps box errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBoxNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingSearchValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
