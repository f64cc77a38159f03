package services

import (
	"errors"
	"fmt"

	"restaurant_backend/internal/repository"
)

// Error kinds. Handlers map each kind onto one HTTP status.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client-facing message together with its kind and, when
// available, the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalid(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

func forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func notFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// fromRepo classifies repository sentinels. Anything else is returned
// wrapped with op and becomes a server error.
func fromRepo(err error, op, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Kind: ErrNotFound, Message: notFoundMsg, Err: err}
	case errors.Is(err, repository.ErrReferenced):
		return &Error{Kind: ErrConflict, Message: "Record is referenced by other records", Err: err}
	case errors.Is(err, repository.ErrDuplicate):
		return &Error{Kind: ErrConflict, Message: "Record already exists", Err: err}
	case errors.Is(err, repository.ErrStaleState):
		return &Error{Kind: ErrConflict, Message: "Record was modified concurrently, retry", Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
