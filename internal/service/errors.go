package service

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors below wrap one of them so callers can map with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrTaskNotFound       = kindError(ErrNotFound, "task not found")
	ErrSubtaskNotFound    = kindError(ErrNotFound, "subtask not found")
	ErrNotOwner           = kindError(ErrForbidden, "not authorized to access this task")
	ErrInvalidCredentials = kindError(ErrUnauthorized, "invalid email or password")
	ErrInvalidToken       = kindError(ErrUnauthorized, "invalid or expired token")
	ErrEmailTaken         = kindError(ErrConflict, "email is already registered")
)

type classified struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &classified{kind: kind, msg: msg}
}

func (e *classified) Error() string { return e.msg }
func (e *classified) Unwrap() error { return e.kind }

// ValidationError reports malformed caller input. It is returned before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
