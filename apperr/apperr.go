// Package apperr defines the error every service returns to the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries the HTTP status and the client-facing message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps cause for logs; only message reaches the client.
func Wrap(status int, cause error, message string) *Error {
	return &Error{Status: status, Message: message, Err: cause}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return New(http.StatusForbidden, format, args...)
}

func BadRequest(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

// InvalidCredentials uses 405, the status clients of this API expect on a failed login.
func InvalidCredentials() *Error {
	return New(http.StatusMethodNotAllowed, "invalid email or password")
}

func Internal(cause error, message string) *Error {
	return Wrap(http.StatusInternalServerError, cause, message)
}

// StatusOf returns the status of err, 500 when err is not an *Error.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
