package manifest

import (
	"errors"
	"net/http"
)

var (
	// ErrShipmentNotFound indicates no shipment record matched the export id.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrMissingShipmentID indicates an export without a shipment record id.
	ErrMissingShipmentID = errors.New("shipment record id is required")
)

// MapHTTPStatus maps manifest errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrShipmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMissingShipmentID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
