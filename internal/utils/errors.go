package utils

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status and the message that is safe to show a
// caller. Details is optional diagnostic text (for example an upstream body).
type AppError struct {
	StatusCode int
	Message    string
	Details    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewMethodNotAllowedError(message string) *AppError {
	return &AppError{StatusCode: http.StatusMethodNotAllowed, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message}
}

// NewUpstreamError mirrors a failed provider call: the provider's status is
// passed through and its body is kept as details.
func NewUpstreamError(status int, message, details string) *AppError {
	return &AppError{StatusCode: status, Message: message, Details: details}
}

// WrapInternal keeps the cause for logs while exposing only message.
func WrapInternal(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
