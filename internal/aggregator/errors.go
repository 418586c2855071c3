package aggregator

import (
	"fmt"

	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
)

type ConfigErrorCause string

const (
	ErrCauseNotConnected ConfigErrorCause = "client not connected"
)

// ConfigError reports that the Aggregator was used in an invalid state,
// such as searching before Connect.
type ConfigError struct {
	Message string
	Cause   ConfigErrorCause
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %s", e.Cause, e.Message)
}

func (e *ConfigError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *ConfigError) IsRetryable() bool {
	return false
}
