package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails returns a copy of the error carrying extra details
func (e *AppError) WithDetails(details interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Err:     e.Err,
	}
}

// Common errors
var (
	// 400 Bad Request
	ErrBadRequest         = New(http.StatusBadRequest, "invalid request body")
	ErrValidation         = New(http.StatusBadRequest, "validation failed")
	ErrInvalidSlug        = New(http.StatusBadRequest, "invalid room code")
	ErrInvalidDisplayName = New(http.StatusBadRequest, "display name must not be blank")
	ErrMissingPlayerID    = New(http.StatusBadRequest, "playerId is required")

	// 401 Unauthorized
	ErrUnauthorized = New(http.StatusUnauthorized, "unauthorized")
	ErrInvalidToken = New(http.StatusUnauthorized, "invalid token")
	ErrTokenExpired = New(http.StatusUnauthorized, "token has expired")

	// 403 Forbidden
	ErrForbidden = New(http.StatusForbidden, "forbidden")
	// Joining a full room is a closed door, not a resource conflict.
	ErrRoomFull = New(http.StatusForbidden, "room is full")
	ErrNotHost  = New(http.StatusForbidden, "host token does not match this room")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, "resource not found")
	// An expired room is indistinguishable from a missing one.
	ErrRoomNotFound   = New(http.StatusNotFound, "room not found")
	ErrPlayerNotFound = New(http.StatusNotFound, "player not found in this room")

	// 409 Conflict
	ErrSlugTaken = New(http.StatusConflict, "room code is already in use")

	// 429 Too Many Requests
	ErrTooManyRequests = New(http.StatusTooManyRequests, "too many requests, slow down")

	// 500 Internal Server Error
	ErrInternal = New(http.StatusInternalServerError, "internal server error")
)

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetHTTPStatus returns the HTTP status code for an error
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// GetMessage returns the error message
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
