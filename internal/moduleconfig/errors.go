package moduleconfig

import "errors"

// ErrInvalidPayload indicates a save payload failed structural validation.
var ErrInvalidPayload = errors.New("module config payload is invalid")
