package gateway

import (
	"errors"
	"fmt"
)

// Failure kinds. Callers match them with errors.Is.
var (
	ErrCompletionFailed = errors.New("completion failed")
	ErrAnalysisFailed   = errors.New("analysis failed")

	// ErrInvalidRequest marks a request rejected before any network call.
	// It is reported alongside the operation's failure kind.
	ErrInvalidRequest = errors.New("invalid request")
)

// Failure reasons, used in error text and as the metrics status label.
const (
	reasonInvalid   = "invalid_request"
	reasonTimeout   = "timeout"
	reasonCanceled  = "canceled"
	reasonStatus    = "provider_status"
	reasonNetwork   = "transport"
	reasonEmpty     = "empty_response"
	reasonMalformed = "malformed_response"
)

// CallError is the only error a provider adapter returns. It carries the
// failure kind and a coarse reason; provider bodies and transport details
// are logged, never attached.
type CallError struct {
	Op     string
	Kind   error
	Reason string
	Status int // provider HTTP status, 0 when none was received
}

func (e *CallError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v (%s)", e.Kind, e.Reason)
}

func (e *CallError) Unwrap() error {
	return e.Kind
}

// Is lets errors.Is(err, ErrInvalidRequest) match validation failures.
func (e *CallError) Is(target error) bool {
	return target == ErrInvalidRequest && e.Reason == reasonInvalid
}

// Timeout reports whether the call hit its deadline.
func (e *CallError) Timeout() bool {
	return e.Reason == reasonTimeout
}
