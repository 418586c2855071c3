package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
	"github.com/rohmanhakim/serp-aggregator/pkg/timeutil"
)

// Retry executes the provided function with retry logic, honoring ctx cancellation
// both before an attempt starts and during the backoff sleep between attempts.
// It will retry the function up to MaxAttempts times, applying exponential backoff
// with jitter between attempts. Only retryable errors will trigger a retry.
//
// Type parameter T represents the return type of the function being retried.
// Returns a Result containing the value (if successful), error (if failed),
// and the number of attempts made.
func Retry[T any](ctx context.Context, retryParam RetryParam, fn func(ctx context.Context) (T, failure.ClassifiedError)) Result[T] {
	var lastErr failure.ClassifiedError
	var zero T

	if retryParam.MaxAttempts < 1 {
		return Result[T]{
			value: zero,
			err: &RetryError{
				Message:   "max attempt cannot be 0",
				Cause:     ErrZeroAttempt,
				Retryable: true,
			},
			attempts: 0,
		}
	}

	rng := rand.New(rand.NewSource(retryParam.RandomSeed))

	for attempt := 1; attempt <= retryParam.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result[T]{
				value:    zero,
				err:      &RetryError{Message: err.Error(), Cause: ErrCancelled, Retryable: false},
				attempts: attempt - 1,
			}
		}

		result, err := fn(ctx)

		if err == nil {
			return NewSuccessResult(result, attempt)
		}

		lastErr = err

		shouldRetry := isErrorRetryable(err)
		if !shouldRetry {
			return Result[T]{
				value:    zero,
				err:      err,
				attempts: attempt,
			}
		}

		if attempt == retryParam.MaxAttempts {
			break
		}

		backoffDelay := timeutil.ExponentialBackoffDelay(
			attempt,
			retryParam.Jitter,
			*rng,
			retryParam.BackoffParam,
		)

		timer := time.NewTimer(backoffDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result[T]{
				value:    zero,
				err:      &RetryError{Message: ctx.Err().Error(), Cause: ErrCancelled, Retryable: false},
				attempts: attempt,
			}
		case <-timer.C:
		}
	}

	return Result[T]{
		value: zero,
		err: &RetryError{
			Message:   fmt.Sprintf("exhausted %d attempts. Last error: %v", retryParam.MaxAttempts, lastErr),
			Cause:     ErrExhaustedAttempts,
			Retryable: true,
		},
		attempts: retryParam.MaxAttempts,
	}
}

// isErrorRetryable checks if an error should be retried.
func isErrorRetryable(err failure.ClassifiedError) bool {
	type hasRetryable interface {
		IsRetryable() bool
	}

	if r, ok := err.(hasRetryable); ok {
		return r.IsRetryable()
	}

	return true
}
