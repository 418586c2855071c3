package cache

import (
	"fmt"

	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseBackendUnavailable CacheErrorCause = "backend unavailable"
	ErrCauseSerialization      CacheErrorCause = "serialization failure"
)

// CacheError reports a backend failure. Callers that want fail-open
// semantics (the default for both InMemoryCache and RedisCache) never see
// this type surfaced from Get/Set/Delete; it exists for components that
// need to distinguish "cache unavailable" from "cache miss" explicitly,
// such as health checks.
type CacheError struct {
	Cause   CacheErrorCause
	Message string
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error (%s): %s", e.Cause, e.Message)
}

func (e *CacheError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *CacheError) IsRetryable() bool {
	return true
}
