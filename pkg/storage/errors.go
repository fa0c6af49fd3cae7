package storage

import (
	"errors"
	"net/http"
)

// Sentinel errors for the manifest archive container. Key validation failures
// surface before any request reaches the blob service.
var (
	// ErrNotFound indicates the requested archive blob does not exist.
	ErrNotFound = errors.New("archive blob not found")
	// ErrEmptyKey indicates an empty archive key was provided.
	ErrEmptyKey = errors.New("archive key must not be empty")
	// ErrInvalidKey indicates the archive key contains a path traversal segment.
	ErrInvalidKey = errors.New("archive key contains invalid path segment")
)

// MapHTTPStatus maps archive errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
