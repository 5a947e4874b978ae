package core

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers return them joined with a cause, so callers check with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrDuplicateBookcase  = fmt.Errorf("%w: a bookcase with this label already exists at this location", ErrConflict)
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrIntegrityViolation = errors.New("integrity violation")
)

// Failure returns kind joined with a message naming the failed event type and the reason.
func Failure(kind error, eventType string, reason string) error {
	return errors.Join(kind, errors.New(eventType+": "+reason))
}
