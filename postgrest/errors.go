package postgrest

import (
	"errors"
	"fmt"
)

// Common errors returned before any network I/O happens.
var (
	// ErrMissingOperation is returned when Execute is called on a chain
	// that never selected a table operation.
	ErrMissingOperation = errors.New("Missing table operation: select, insert, update or delete")

	// ErrInvalidURL is returned when the accumulated request URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid request URL")

	// ErrUnknownError is returned when the server reports a failure status
	// but the response body cannot be decoded into a ServerError.
	ErrUnknownError = errors.New("failed to get error")
)

// ServerError represents a structured error reported by a PostgREST server.
type ServerError struct {
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
	Code    string `json:"code"`

	// HTTPStatus is the status code of the response that carried the error.
	HTTPStatus int `json:"-"`
}

// Error implements the error interface
func (e *ServerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("postgrest error: status %d: %s (%s)", e.HTTPStatus, e.Message, e.Code)
	}
	return fmt.Sprintf("postgrest error: status %d: %s", e.HTTPStatus, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *ServerError) IsNotFound() bool {
	return e.HTTPStatus == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *ServerError) IsUnauthorized() bool {
	return e.HTTPStatus == 401 || e.HTTPStatus == 403
}

// IsConflict checks if the error indicates a constraint violation
func (e *ServerError) IsConflict() bool {
	return e.HTTPStatus == 409
}
