// Package metrics holds the metric vocabulary of the console.
package metrics

import (
	"time"

	obserrors "github.com/lubsanchez/pos-console/internal/observability/errors"
	"github.com/lubsanchez/pos-console/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// EmitLogin counts a login attempt.
func EmitLogin(sink statsd.Sink, result string, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": result}
	if err != nil {
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count("session.login", 1, tags)
}

// EmitValidation counts a credential validation by outcome.
func EmitValidation(sink statsd.Sink, outcome string, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"outcome": outcome}
	if err != nil {
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count("session.validation", 1, tags)
}

// EmitValidationLatency records how long GET /auth/me took.
func EmitValidationLatency(sink statsd.Sink, d time.Duration) {
	if sink == nil || d <= 0 {
		return
	}
	sink.Timing("session.validation.duration", d, nil)
}

// EmitSessionEnd counts a completed logout by reason.
func EmitSessionEnd(sink statsd.Sink, reason string) {
	if sink == nil {
		return
	}
	sink.Count("session.logout", 1, map[string]string{"reason": reason})
}

// EmitSale counts a checkout attempt.
func EmitSale(sink statsd.Sink, result string, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"result": result}
	if err != nil {
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count("pos.checkout", 1, tags)
}
