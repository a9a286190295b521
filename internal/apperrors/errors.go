// Package apperrors defines the domain error taxonomy. Services raise these
// and the HTTP layer maps them to status codes deterministically.
package apperrors

import (
	"errors"
	"net/http"
)

type AppError struct {
	Status      int               // HTTP status the boundary should use
	ErrorLabel  string            // short label, e.g. "Not Found"
	Message     string            // human-readable message
	FieldErrors map[string]string // per-field messages, validation only
	Err         error             // wrapped cause, never sent to clients
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// NotFound reports that the requested row does not exist.
func NotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, ErrorLabel: "Not Found", Message: message}
}

// Validation reports that a request payload failed field constraints.
func Validation(message string, fieldErrors map[string]string) *AppError {
	return &AppError{
		Status:      http.StatusBadRequest,
		ErrorLabel:  "Validation Error",
		Message:     message,
		FieldErrors: fieldErrors,
	}
}

// InvalidArgument reports semantically invalid query parameters.
func InvalidArgument(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, ErrorLabel: "Bad Request", Message: message}
}

// Internal reports an unanticipated failure. The cause stays server-side.
func Internal(message string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, ErrorLabel: "Internal Server Error", Message: message}
}

// As unwraps err into an *AppError if it is one.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
