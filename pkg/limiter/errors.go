package limiter

import (
	"fmt"

	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
)

type CircuitOpenErrorCause string

const (
	ErrCauseCircuitOpen CircuitOpenErrorCause = "circuit breaker open"
)

// CircuitOpenError is returned by Acquire when the circuit breaker has
// tripped and is not yet eligible for a half-open retry.
type CircuitOpenError struct {
	Message string
}

func (e *CircuitOpenError) Error() string {
	return fmt.Sprintf("circuit open: %s", e.Message)
}

func (e *CircuitOpenError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// IsRetryable is true: callers should back off and retry once the breaker
// transitions to half_open, but the immediate request must not proceed.
func (e *CircuitOpenError) IsRetryable() bool {
	return true
}
