package timeutil_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rohmanhakim/serp-aggregator/pkg/timeutil"
	"github.com/stretchr/testify/assert"
)

func TestMaxDuration_ReturnsLargest(t *testing.T) {
	got := timeutil.MaxDuration([]time.Duration{1 * time.Second, 5 * time.Second, 3 * time.Second})
	assert.Equal(t, 5*time.Second, got)
}

func TestMaxDuration_EmptySliceReturnsZero(t *testing.T) {
	got := timeutil.MaxDuration(nil)
	assert.Equal(t, time.Duration(0), got)
}

func TestExponentialBackoffDelay_GrowsWithAttempt(t *testing.T) {
	param := timeutil.NewBackoffParam(time.Second, 2.0, time.Minute)
	rng := rand.New(rand.NewSource(1))

	first := timeutil.ExponentialBackoffDelay(1, 0, *rng, param)
	second := timeutil.ExponentialBackoffDelay(2, 0, *rng, param)
	third := timeutil.ExponentialBackoffDelay(3, 0, *rng, param)

	assert.Equal(t, time.Second, first)
	assert.Equal(t, 2*time.Second, second)
	assert.Equal(t, 4*time.Second, third)
}

func TestExponentialBackoffDelay_CapsAtMaxDuration(t *testing.T) {
	param := timeutil.NewBackoffParam(time.Second, 2.0, 3*time.Second)
	rng := rand.New(rand.NewSource(1))

	got := timeutil.ExponentialBackoffDelay(10, 0, *rng, param)
	assert.Equal(t, 3*time.Second, got)
}

func TestExponentialBackoffDelay_AttemptBelowOneTreatedAsOne(t *testing.T) {
	param := timeutil.NewBackoffParam(time.Second, 2.0, time.Minute)
	rng := rand.New(rand.NewSource(1))

	got := timeutil.ExponentialBackoffDelay(0, 0, *rng, param)
	assert.Equal(t, time.Second, got)
}

func TestExponentialBackoffDelay_AddsJitterWithinBound(t *testing.T) {
	param := timeutil.NewBackoffParam(time.Second, 1.0, time.Minute)
	rng := rand.New(rand.NewSource(42))

	got := timeutil.ExponentialBackoffDelay(1, 100*time.Millisecond, *rng, param)
	assert.GreaterOrEqual(t, got, time.Second)
	assert.Less(t, got, time.Second+100*time.Millisecond)
}
