// Package errors carries the console's user-facing error categories. Services
// return *AppError so handlers can pick a toast, a field message or a status
// without looking at transport details.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeConflict   ErrorCode = "conflict"
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeUnauthorized means the API rejected the operator credential.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden means the API refused the action for this operator's role.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeUnavailable means the API could not be reached or answered 5xx.
	ErrCodeUnavailable ErrorCode = "unavailable"
	ErrCodeInternal    ErrorCode = "internal"
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeCanceled    ErrorCode = "canceled"
)

// AppError is an error with a category, an operator-facing message and,
// for validation errors, the form field it belongs to.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Field   string
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NotFound reports a missing product, category, sale or user.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Validation reports input the operator has to correct.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// Validationf is Validation with a formatted message.
func Validationf(format string, args ...any) *AppError {
	return Validation(fmt.Sprintf(format, args...))
}

// ValidationField reports invalid input for one form field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

func IsNotFound(err error) bool    { return Is(err, ErrCodeNotFound) }
func IsConflict(err error) bool    { return Is(err, ErrCodeConflict) }
func IsValidation(err error) bool  { return Is(err, ErrCodeValidation) }
func IsUnavailable(err error) bool { return Is(err, ErrCodeUnavailable) }
func IsInternal(err error) bool    { return Is(err, ErrCodeInternal) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the form field a validation error belongs to, if any.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
