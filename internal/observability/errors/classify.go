package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strconv"
	"strings"
)

// statusCoder matches API errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// Classify returns a short label for err suitable for metric tags.
// API errors become http_<status class>, deadlines and network failures get
// their own labels, anything else falls back to the innermost type name.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var sc statusCoder
	if goerrors.As(err, &sc) {
		return "http_" + strconv.Itoa(sc.StatusCode()/100) + "xx"
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if goerrors.Is(err, context.Canceled) {
		return "canceled"
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
