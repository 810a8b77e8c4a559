package session

import (
	"errors"
	"net/http"

	"github.com/lubsanchez/pos-console/internal/ports"
)

// Outcome is the classification of a validation attempt.
type Outcome int

const (
	// OutcomeValid means the API confirmed the credential.
	OutcomeValid Outcome = iota
	// OutcomeInvalid is conclusive: the session must end.
	OutcomeInvalid
	// OutcomeInconclusive covers connectivity errors, timeouts and 5xx; the session is kept.
	OutcomeInconclusive
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// statusCoder is implemented by API errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// Classify maps a validation error onto an Outcome.
// Only 401/403 and an empty identity payload are conclusive.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeValid
	}
	if errors.Is(err, ports.ErrEmptyIdentity) || errors.Is(err, ErrNotAuthenticated) {
		return OutcomeInvalid
	}
	if IsAuthFailure(err) {
		return OutcomeInvalid
	}
	return OutcomeInconclusive
}

// IsAuthFailure reports whether err is an explicit 401/403 from the API.
func IsAuthFailure(err error) bool {
	var sc statusCoder
	if !errors.As(err, &sc) {
		return false
	}
	switch sc.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}

func reasonFor(err error) LogoutReason {
	switch {
	case IsAuthFailure(err):
		return ReasonRejected
	case errors.Is(err, ErrNotAuthenticated):
		return ReasonNoCredential
	default:
		return ReasonInvalid
	}
}
