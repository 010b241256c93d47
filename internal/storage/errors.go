package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced user, medication or setting
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports malformed or out-of-range input. It is raised by the
// Facade before any store is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UnavailableError wraps a primary store query or connection failure. The
// Facade absorbs it and reroutes the call to the fallback store.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsDomainError reports whether err is a deterministic lookup or validation
// failure that must be surfaced to the caller unchanged.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation)
}
