package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeStatusErr struct{ status int }

func (e fakeStatusErr) Error() string   { return "status" }
func (e fakeStatusErr) StatusCode() int { return e.status }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", fmt.Errorf("me: %w", fakeStatusErr{401}), "http_4xx"},
		{"server error", fakeStatusErr{503}, "http_5xx"},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"plain", goerrors.New("boom"), "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
