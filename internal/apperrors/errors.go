// Package apperrors holds the error kinds the service layer reports to its callers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrPermission        = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate")
	ErrCompanyResolution = errors.New("company code resolution failed")
)

// Error carries a caller-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

func Permission(format string, args ...interface{}) error {
	return newError(ErrPermission, format, args...)
}

func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

func Duplicate(format string, args ...interface{}) error {
	return newError(ErrDuplicate, format, args...)
}

func CompanyResolution(format string, args ...interface{}) error {
	return newError(ErrCompanyResolution, format, args...)
}

// Message returns the caller-facing text of err, falling back to err.Error().
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
