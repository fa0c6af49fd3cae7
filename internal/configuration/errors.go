package configuration

import (
	"errors"
	"net/http"
)

var (
	// ErrNoConfigurations indicates no configuration exists in the host
	// settings. Nothing can run without at least one.
	ErrNoConfigurations = errors.New("no tracking configurations are defined")
	// ErrNotConfigured indicates a project is not referenced by any
	// configuration.
	ErrNotConfigured = errors.New("project is not referenced in any configuration")
	// ErrAmbiguousProject indicates a project is referenced by more than one
	// configuration.
	ErrAmbiguousProject = errors.New("project is referenced in more than one configuration")
	// ErrContextSet indicates the active context was already bound for this
	// request.
	ErrContextSet = errors.New("active context has already been set")
	// ErrInvalidConfiguration indicates an errored or disabled configuration
	// was offered for activation.
	ErrInvalidConfiguration = errors.New("configuration is not valid for activation")
)

// MapHTTPStatus maps configuration errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return http.StatusNotFound
	case errors.Is(err, ErrAmbiguousProject), errors.Is(err, ErrInvalidConfiguration):
		return http.StatusConflict
	case errors.Is(err, ErrNoConfigurations):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
