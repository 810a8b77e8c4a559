package service

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lubsanchez/pos-console/internal/errors"
)

// ToastKind selects a toast's styling.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastWarning ToastKind = "warning"
	ToastInfo    ToastKind = "info"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 5000 * time.Millisecond

// Toast is a transient notification shown to the operator.
// A zero Duration keeps the toast until it is dismissed.
type Toast struct {
	ID       string
	Kind     ToastKind
	Message  string
	Duration time.Duration
}

// DurationMS is the display duration in milliseconds.
func (t Toast) DurationMS() int64 {
	return t.Duration.Milliseconds()
}

// NewToast builds a toast with a fresh id and the default duration.
func NewToast(kind ToastKind, message string) Toast {
	return Toast{ID: uuid.NewString(), Kind: kind, Message: message, Duration: DefaultToastDuration}
}

// Sticky returns a copy of t that stays until dismissed.
func (t Toast) Sticky() Toast {
	t.Duration = 0
	return t
}

// Success builds a success toast.
func Success(message string) Toast { return NewToast(ToastSuccess, message) }

// Error builds an error toast.
func Error(message string) Toast { return NewToast(ToastError, message) }

// Warning builds a warning toast.
func Warning(message string) Toast { return NewToast(ToastWarning, message) }

// Info builds an info toast.
func Info(message string) Toast { return NewToast(ToastInfo, message) }

// ToastFor turns a failed action into a toast: input problems warn, everything
// else is an error prefixed with what the operator was doing.
func ToastFor(action string, err error) Toast {
	msg := apperrors.UserMessage(err)
	if apperrors.IsValidation(apperrors.MapAPIError(err)) {
		return Warning(msg)
	}
	if action == "" {
		return Error(msg)
	}
	return Error(action + ": " + msg)
}
