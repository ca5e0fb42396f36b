package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of client error.
type ErrorCode string

const (
	// ErrCodeValidation indicates input rejected locally before any network call.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeServer indicates the backend answered with an error payload.
	ErrCodeServer ErrorCode = "server"
	// ErrCodeNetwork indicates a transport or decode failure with no usable response.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeNotFound indicates no session identifier is stored.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
	// ErrCodeInternal indicates a local failure (session store, encoding).
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured client error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is the text shown to the user; for server errors it is the backend message verbatim
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
	// Status is the HTTP status returned by the backend (server errors only)
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code) + " error"
		if e.Status != 0 {
			msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Server creates a new Server error carrying the backend message and status.
// An empty message is allowed; callers substitute their own fallback text.
func Server(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeServer,
		Message: message,
		Status:  status,
	}
}

// Network wraps a transport failure.
func Network(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: message,
		Cause:   err,
	}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsServer checks if an error is a Server error.
func IsServer(err error) bool {
	return isCode(err, ErrCodeServer)
}

// IsNetwork checks if an error is a Network error.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

// UserMessage returns the text to show the user for err.
// Validation and server errors surface their message verbatim; everything
// else, and any error without a message, yields fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fallback
	}
	if appErr.Code != ErrCodeValidation && appErr.Code != ErrCodeServer {
		return fallback
	}
	if strings.TrimSpace(appErr.Message) == "" {
		return fallback
	}
	return appErr.Message
}
