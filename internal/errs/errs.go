// Package errs defines the error taxonomy shared by services, repositories and handlers.
//
// Operations wrap one of the sentinels with context using fmt.Errorf("...: %w", ...),
// and callers classify the result with errors.Is.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument marks a bad or missing input field.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a lookup that matched no rows.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a connectivity or constraint failure at the storage boundary.
	ErrPersistence = errors.New("persistence error")
)

// InvalidArgument returns an ErrInvalidArgument carrying msg.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// NotFound returns an ErrNotFound naming the resource and the key that missed.
func NotFound(resource, field, value string) error {
	return fmt.Errorf("%w: %s with %s '%s'", ErrNotFound, resource, field, value)
}

// Persistence wraps a storage failure so that both ErrPersistence and the cause stay matchable.
func Persistence(op string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, cause)
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
