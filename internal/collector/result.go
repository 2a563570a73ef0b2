package collector

import (
	"errors"
	"fmt"
)

// Outcome is the final state of one send attempt.
type Outcome string

const (
	// OutcomeSent means a request reached the endpoint, whatever the status.
	OutcomeSent Outcome = "sent"
	// OutcomeValidationFailed means the hit was rejected locally.
	OutcomeValidationFailed Outcome = "validation_failed"
	// OutcomeTransportError means the request failed below HTTP.
	OutcomeTransportError Outcome = "transport_error"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeSent, OutcomeValidationFailed, OutcomeTransportError:
		return true
	default:
		return false
	}
}

var (
	// ErrValidationFailed is returned for hits missing identity or the
	// required fields of their type.
	ErrValidationFailed = errors.New("hit failed validation")
	// ErrTransport wraps network-level failures. The hit is lost.
	ErrTransport = errors.New("hit transport failed")
)

// UpstreamError records a 4xx/5xx answer from the collect endpoint.
// It is informational; the hit still counts as sent.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("collect endpoint returned status %d", e.StatusCode)
}

// Result describes one send attempt.
type Result struct {
	Outcome    Outcome
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// Attempted reports whether a request was issued and answered.
func (r Result) Attempted() bool {
	return r.Outcome == OutcomeSent
}

// Upstream returns the upstream error, if the endpoint answered 4xx/5xx.
func (r Result) Upstream() (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(r.Err, &ue) {
		return ue, true
	}
	return nil, false
}
