package lifecycle

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")
)

// Fail wraps kind with the precondition that failed.
func Fail(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) error {
	return Fail(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return Fail(ErrForbidden, format, args...)
}

func Conflict(format string, args ...any) error {
	return Fail(ErrConflict, format, args...)
}

func Invalid(format string, args ...any) error {
	return Fail(ErrValidation, format, args...)
}

// Kind returns the failure kind wrapped by err, or nil for untyped errors.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrConflict, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
