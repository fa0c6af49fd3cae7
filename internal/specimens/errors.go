package specimens

import (
	"errors"
	"net/http"

	"github.com/tracerlab/spectrack/pkg/repository"
)

var (
	// ErrSpecimenNotFound indicates no specimen record matched.
	ErrSpecimenNotFound = errors.New("specimen not found")
	// ErrBoxNotFound indicates a referenced box record does not exist.
	ErrBoxNotFound = errors.New("box not found")
	// ErrMissingSearchValue indicates an empty search string.
	ErrMissingSearchValue = errors.New("search value is required")
	// ErrMissingRecordID indicates a record operation without a record id.
	ErrMissingRecordID = errors.New("specimen record id is required")
	// ErrMissingName indicates a save without the required specimen name.
	ErrMissingName = errors.New("specimen name is required")
)

// MapHTTPStatus maps specimen errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSpecimenNotFound),
		errors.Is(err, ErrBoxNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingSearchValue),
		errors.Is(err, ErrMissingRecordID),
		errors.Is(err, ErrMissingName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
