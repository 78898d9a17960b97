package domain

import "errors"

// ErrNotFound is returned by service functions when the requested lead or note
// does not exist in the current collection.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a boundary rule (e.g. an unknown
// status value or a blank note). The lead store itself never validates.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
