package apperror

import (
	"errors"
	"net/http"
)

// AppError is an error that knows its HTTP status. Details carries an
// optional structured payload, such as the per-room availability breakdown
// that accompanies a reservation conflict.
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Details interface{}  `json:"details,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound        = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized    = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden       = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest      = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer  = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrTooManyRequests = &AppError{Code: http.StatusTooManyRequests, Message: "Too many requests"}
	ErrTokenExpired    = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken    = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
	ErrStorageDisabled = &AppError{Code: http.StatusServiceUnavailable, Message: "Document storage is not configured"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a validation error for a single field.
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewConflictWithDetails is a conflict that also returns details to the caller.
func NewConflictWithDetails(message string, details interface{}) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Details: details,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// Wrap keeps err as an internal error with a public message. The cause is
// returned by Unwrap but never rendered.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	return &wrapped{AppError: AppError{Code: http.StatusInternalServerError, Message: message}, cause: err}
}

type wrapped struct {
	AppError
	cause error
}

func (w *wrapped) Error() string { return w.Message + ": " + w.cause.Error() }
func (w *wrapped) Unwrap() error { return w.cause }
func (w *wrapped) As(target interface{}) bool {
	if t, ok := target.(**AppError); ok {
		*t = &w.AppError
		return true
	}
	return false
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
