package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout         FetchErrorCause = "timeout"
	ErrCauseNetworkFailure  FetchErrorCause = "network issues"
	ErrCauseRateLimited     FetchErrorCause = "rate limited"
	ErrCauseNoResponseID    FetchErrorCause = "no response_id returned"
	ErrCauseAPIError        FetchErrorCause = "api error"
	ErrCausePollTimeout     FetchErrorCause = "poll timeout"
	ErrCauseCircuitOpen     FetchErrorCause = "circuit open"
)

// FetchError reports a failure submitting or polling a single page.
type FetchError struct {
	Message       string
	Retryable     bool
	Cause         FetchErrorCause
	StatusCode    int
	ResponseID    string
	CorrelationID string
}

func (e *FetchError) Error() string {
	if e.CorrelationID != "" {
		return fmt.Sprintf("fetch error (%s) [%s]: %s", e.Cause, e.CorrelationID, e.Message)
	}
	return fmt.Sprintf("fetch error (%s): %s", e.Cause, e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable.
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}
