// Package apperr is the domain error taxonomy. Every failure a service or
// repository can surface is an *Error carrying an HTTP status and a message;
// the API layer serializes it uniformly and nothing else formats responses.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func Unprocessable(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// StatusCode extracts the status carried by err, or 500 for unknown errors.
func StatusCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
