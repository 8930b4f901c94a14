// Package apperrors defines the error taxonomy shared by storage and the
// HTTP layer, and maps each kind to an HTTP status code.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound         = errors.New("student not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadInput         = errors.New("bad input")
)

// NotFoundError reports a lookup, update, or delete against an id that is
// not stored.
type NotFoundError struct {
	ID int64
}

func NewNotFoundError(id int64) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Could not find student %d", e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// BadInput wraps cause as a malformed-request error.
func BadInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadInput, fmt.Sprintf(format, args...))
}

// StatusCode maps an error to the HTTP status the API answers with.
// Anything outside the taxonomy is an unexpected failure.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidationFailed), errors.Is(err, ErrBadInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
