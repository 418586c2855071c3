package retry_test

import (
	"context"
	"testing"
	"time"

	"github.com/rohmanhakim/serp-aggregator/pkg/failure"
	"github.com/rohmanhakim/serp-aggregator/pkg/retry"
	"github.com/rohmanhakim/serp-aggregator/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeError struct {
	msg       string
	retryable bool
}

func (e *fakeError) Error() string             { return e.msg }
func (e *fakeError) Severity() failure.Severity { return failure.SeverityRecoverable }
func (e *fakeError) IsRetryable() bool          { return e.retryable }

func testParam(maxAttempts int) retry.RetryParam {
	return retry.NewRetryParam(
		time.Millisecond,
		time.Millisecond,
		42,
		maxAttempts,
		timeutil.NewBackoffParam(time.Millisecond, 2.0, 10*time.Millisecond),
	)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	result := retry.Retry(context.Background(), testParam(3), func(ctx context.Context) (string, failure.ClassifiedError) {
		calls++
		return "ok", nil
	})

	require.True(t, result.Ok())
	assert.Equal(t, "ok", result.Value())
	assert.Equal(t, 1, result.Attempts())
	assert.Equal(t, 1, calls)
}

func TestRetry_RetriesRetryableErrorsUntilSuccess(t *testing.T) {
	calls := 0
	result := retry.Retry(context.Background(), testParam(5), func(ctx context.Context) (int, failure.ClassifiedError) {
		calls++
		if calls < 3 {
			return 0, &fakeError{msg: "transient", retryable: true}
		}
		return 7, nil
	})

	require.True(t, result.Ok())
	assert.Equal(t, 7, result.Value())
	assert.Equal(t, 3, result.Attempts())
}

func TestRetry_StopsImmediatelyOnNonRetryableError(t *testing.T) {
	calls := 0
	result := retry.Retry(context.Background(), testParam(5), func(ctx context.Context) (int, failure.ClassifiedError) {
		calls++
		return 0, &fakeError{msg: "fatal", retryable: false}
	})

	require.False(t, result.Ok())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, result.Attempts())
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	result := retry.Retry(context.Background(), testParam(3), func(ctx context.Context) (int, failure.ClassifiedError) {
		calls++
		return 0, &fakeError{msg: "always fails", retryable: true}
	})

	require.False(t, result.Ok())
	assert.Equal(t, 3, calls)
	var retryErr *retry.RetryError
	require.ErrorAs(t, result.Err(), &retryErr)
	assert.Equal(t, retry.ErrExhaustedAttempts, retryErr.Cause)
}

func TestRetry_ZeroMaxAttemptsIsError(t *testing.T) {
	result := retry.Retry(context.Background(), testParam(0), func(ctx context.Context) (int, failure.ClassifiedError) {
		t.Fatal("fn should never be called")
		return 0, nil
	})

	require.False(t, result.Ok())
	var retryErr *retry.RetryError
	require.ErrorAs(t, result.Err(), &retryErr)
	assert.Equal(t, retry.ErrZeroAttempt, retryErr.Cause)
}

func TestRetry_StopsWhenContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	result := retry.Retry(ctx, testParam(5), func(ctx context.Context) (int, failure.ClassifiedError) {
		calls++
		if calls == 1 {
			cancel()
		}
		return 0, &fakeError{msg: "transient", retryable: true}
	})

	require.False(t, result.Ok())
	assert.Equal(t, 1, calls)
}
