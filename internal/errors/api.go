package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// statusError is implemented by remote API errors.
type statusError interface {
	StatusCode() int
	ServerMessage() string
}

// MapAPIError maps remote API and transport errors to AppError instances:
//   - 400/422 → Validation (server message kept)
//   - 401 → Unauthorized, 403 → Forbidden
//   - 404 → NotFound, 409 → Conflict
//   - 5xx and connectivity failures → Unavailable
//   - Context timeouts/cancellations → Timeout/Canceled
//
// AppErrors pass through unchanged; anything else becomes Internal.
func MapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	// Check for context errors first
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{
			Code:    ErrCodeTimeout,
			Message: "The server took too long to answer. Please try again.",
			Cause:   err,
		}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{
			Code:    ErrCodeCanceled,
			Message: "Request was canceled.",
			Cause:   err,
		}
	}

	var se statusError
	if errors.As(err, &se) {
		return mapStatus(se, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &AppError{Code: ErrCodeTimeout, Message: "The server took too long to answer. Please try again.", Cause: err}
		}
		return &AppError{Code: ErrCodeUnavailable, Message: "Could not reach the server.", Cause: err}
	}

	return &AppError{Code: ErrCodeInternal, Message: "Unexpected error.", Cause: err}
}

func mapStatus(se statusError, cause error) error {
	msg := strings.TrimSpace(se.ServerMessage())
	code := se.StatusCode()
	switch {
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return &AppError{Code: ErrCodeValidation, Message: orDefault(msg, "The server rejected the data sent."), Cause: cause}
	case code == http.StatusUnauthorized:
		return &AppError{Code: ErrCodeUnauthorized, Message: orDefault(msg, "Your session has expired."), Cause: cause}
	case code == http.StatusForbidden:
		return &AppError{Code: ErrCodeForbidden, Message: orDefault(msg, "You do not have permission for this action."), Cause: cause}
	case code == http.StatusNotFound:
		return &AppError{Code: ErrCodeNotFound, Message: orDefault(msg, "Resource not found"), Cause: cause}
	case code == http.StatusConflict:
		return &AppError{Code: ErrCodeConflict, Message: orDefault(msg, "The record already exists."), Cause: cause}
	case code >= 500:
		return &AppError{Code: ErrCodeUnavailable, Message: "The server is unavailable. Please try again.", Cause: cause}
	default:
		return &AppError{Code: ErrCodeInternal, Message: orDefault(msg, "Unexpected error."), Cause: cause}
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// UserMessage returns the operator-facing text for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(MapAPIError(err), &appErr) {
		return appErr.Message
	}
	return err.Error()
}
