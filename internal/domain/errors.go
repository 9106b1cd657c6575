package domain

import "errors"

// ErrNotFound is returned by repo, service, and itinerary functions when
// the requested resource does not exist (in the database or in a snapshot).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
