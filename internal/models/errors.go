package models

import (
	"fmt"

	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
)

type ValidationErrorCause string

const (
	ErrCauseQueryEmpty      ValidationErrorCause = "query is empty"
	ErrCauseQueryTooLong    ValidationErrorCause = "query exceeds max length"
	ErrCauseCountryInvalid  ValidationErrorCause = "country code does not match expected pattern"
	ErrCauseLanguageInvalid ValidationErrorCause = "language code does not match expected pattern"
	ErrCauseMaxPagesOOR     ValidationErrorCause = "max_pages out of range"
	ErrCauseConcurrencyOOR  ValidationErrorCause = "concurrency out of range"
	ErrCauseSearchTypeBad   ValidationErrorCause = "unsupported search type"
)

// ValidationError reports an invalid SearchParams field. Field identifies
// which constructor argument failed; it is never retryable since retrying
// with the same input produces the same error.
type ValidationError struct {
	Field string
	Cause ValidationErrorCause
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Cause)
}

func (e *ValidationError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *ValidationError) IsRetryable() bool {
	return false
}
