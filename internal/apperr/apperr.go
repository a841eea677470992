// Package apperr holds the error kinds shared by the stores and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every store when a row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries a message that is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
