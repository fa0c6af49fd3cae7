package shipments

import (
	"errors"
	"net/http"
)

var (
	// ErrShipmentNotFound indicates no shipment record matched.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrBoxNotFound indicates a referenced box record does not exist.
	ErrBoxNotFound = errors.New("box not found")
	// ErrMissingRecordID indicates an operation without a record id.
	ErrMissingRecordID = errors.New("record id is required")
	// ErrAlreadyComplete indicates a completion attempt on a shipment that is
	// already complete.
	ErrAlreadyComplete = errors.New("shipment is already complete")
)

// MapHTTPStatus maps shipment errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrShipmentNotFound), errors.Is(err, ErrBoxNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingRecordID):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyComplete):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
