package api

import (
	"errors"
	"net/http"

	"github.com/tracerlab/spectrack/internal/boxes"
	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/manifest"
	"github.com/tracerlab/spectrack/internal/moduleconfig"
	"github.com/tracerlab/spectrack/internal/shipments"
	"github.com/tracerlab/spectrack/internal/specimens"
	"github.com/tracerlab/spectrack/pkg/repository"
)

var (
	errMissingProjectID = errors.New("pid query parameter is required")
	errInvalidProjectID = errors.New("pid must be a positive integer")
	errMissingAction    = errors.New("action is required")
	errUnknownAction    = errors.New("unknown action")
)

// statusFor resolves an error to its HTTP status by delegating to the owning
// package's mapping.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errMissingProjectID),
		errors.Is(err, errInvalidProjectID),
		errors.Is(err, errMissingAction),
		errors.Is(err, errUnknownAction),
		errors.Is(err, moduleconfig.ErrInvalidPayload):
		return http.StatusBadRequest

	case errors.Is(err, configuration.ErrNoConfigurations),
		errors.Is(err, configuration.ErrNotConfigured),
		errors.Is(err, configuration.ErrAmbiguousProject),
		errors.Is(err, configuration.ErrContextSet),
		errors.Is(err, configuration.ErrInvalidConfiguration):
		return configuration.MapHTTPStatus(err)

	case errors.Is(err, specimens.ErrSpecimenNotFound),
		errors.Is(err, specimens.ErrBoxNotFound),
		errors.Is(err, specimens.ErrMissingSearchValue),
		errors.Is(err, specimens.ErrMissingRecordID),
		errors.Is(err, specimens.ErrMissingName):
		return specimens.MapHTTPStatus(err)

	case errors.Is(err, boxes.ErrBoxNotFound),
		errors.Is(err, boxes.ErrMissingSearchValue):
		return boxes.MapHTTPStatus(err)

	case errors.Is(err, shipments.ErrShipmentNotFound),
		errors.Is(err, shipments.ErrBoxNotFound),
		errors.Is(err, shipments.ErrMissingRecordID),
		errors.Is(err, shipments.ErrAlreadyComplete):
		return shipments.MapHTTPStatus(err)

	case errors.Is(err, manifest.ErrShipmentNotFound),
		errors.Is(err, manifest.ErrMissingShipmentID):
		return manifest.MapHTTPStatus(err)

	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
