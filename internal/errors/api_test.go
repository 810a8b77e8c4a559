package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeStatus struct {
	code int
	msg  string
}

func (f *fakeStatus) Error() string         { return fmt.Sprintf("status %d", f.code) }
func (f *fakeStatus) StatusCode() int       { return f.code }
func (f *fakeStatus) ServerMessage() string { return f.msg }

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestMapAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    ErrorCode
		message string
	}{
		{"bad request keeps server message", &fakeStatus{400, "El código ya existe"}, ErrCodeValidation, "El código ya existe"},
		{"unprocessable default", &fakeStatus{422, ""}, ErrCodeValidation, "The server rejected the data sent."},
		{"unauthorized", &fakeStatus{401, ""}, ErrCodeUnauthorized, "Your session has expired."},
		{"forbidden", &fakeStatus{403, ""}, ErrCodeForbidden, "You do not have permission for this action."},
		{"not found", &fakeStatus{404, "Producto no encontrado"}, ErrCodeNotFound, "Producto no encontrado"},
		{"conflict", &fakeStatus{409, ""}, ErrCodeConflict, "The record already exists."},
		{"server error hides detail", &fakeStatus{500, "stack trace"}, ErrCodeUnavailable, "The server is unavailable. Please try again."},
		{"teapot", &fakeStatus{418, ""}, ErrCodeInternal, "Unexpected error."},
		{"deadline", fmt.Errorf("GET /x: %w", context.DeadlineExceeded), ErrCodeTimeout, "The server took too long to answer. Please try again."},
		{"canceled", context.Canceled, ErrCodeCanceled, "Request was canceled."},
		{"net timeout", timeoutErr{}, ErrCodeTimeout, "The server took too long to answer. Please try again."},
		{"connection refused", &net.OpError{Op: "dial", Err: errors.New("refused")}, ErrCodeUnavailable, "Could not reach the server."},
		{"other", errors.New("boom"), ErrCodeInternal, "Unexpected error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapAPIError(tt.err)
			assert.Equal(t, tt.code, GetCode(mapped))
			assert.Equal(t, tt.message, UserMessage(tt.err))
			assert.ErrorIs(t, mapped, tt.err)
		})
	}
}

func TestMapAPIError_PassThrough(t *testing.T) {
	assert.NoError(t, MapAPIError(nil))
	assert.Empty(t, UserMessage(nil))

	v := ValidationField("qty", "Quantity must be positive")
	assert.Same(t, v, MapAPIError(v))
}
