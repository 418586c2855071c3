package limiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter
// Specialized component to adapt request pressure against an upstream SERP
// provider.
// Responsibilities:
// - Smooth request admission via a token bucket
// - React to upstream feedback (success, 429, error) by adjusting the rate
// - Trip a circuit breaker under sustained failure and recover automatically
type RateLimiter interface {
	Acquire(ctx context.Context) error
	OnSuccess()
	OnRateLimit()
	OnError()
	Stats() Stats
}

// AdaptiveRateLimiter is a token-bucket limiter coupled to a three-state
// circuit breaker. The bucket refills continuously at CurrentRPS up to
// BurstSize; OnSuccess nudges the rate up, OnRateLimit and OnError push it
// down. Five consecutive errors (configurable via ErrorThreshold) trip the
// breaker; it stays open for RecoveryTimeout, then allows a half-open probe.
type AdaptiveRateLimiter struct {
	mu sync.Mutex

	minRPS  float64
	maxRPS  float64
	burst   float64
	tokens  float64
	lastFed time.Time

	errorThreshold   int
	recoveryTimeout  time.Duration
	successThreshold int

	state               CircuitState
	consecutiveErrors   int
	consecutiveSuccess  int
	circuitOpenedAt     time.Time

	stats Stats
}

// NewAdaptiveRateLimiter builds a limiter starting at initialRPS, bounded by
// [minRPS, maxRPS], with the given burst capacity and circuit breaker
// thresholds.
func NewAdaptiveRateLimiter(initialRPS, minRPS, maxRPS float64, burstSize, errorThreshold int, recoveryTimeout time.Duration, successThreshold int) *AdaptiveRateLimiter {
	return &AdaptiveRateLimiter{
		minRPS:           minRPS,
		maxRPS:           maxRPS,
		burst:            float64(burstSize),
		tokens:           float64(burstSize),
		lastFed:          time.Now(),
		errorThreshold:   errorThreshold,
		recoveryTimeout:  recoveryTimeout,
		successThreshold: successThreshold,
		state:            CircuitClosed,
		stats:            Stats{CurrentRPS: initialRPS, CircuitState: CircuitClosed},
	}
}

// Acquire blocks until a token is available, or returns a *CircuitOpenError
// if the breaker is tripped and not yet eligible for a half-open probe, or
// ctx.Err() if ctx is cancelled while waiting.
func (r *AdaptiveRateLimiter) Acquire(ctx context.Context) error {
	r.mu.Lock()
	r.stats.RequestsTotal++

	if r.state == CircuitOpen {
		if time.Since(r.circuitOpenedAt) > r.recoveryTimeout {
			r.state = CircuitHalfOpen
			r.consecutiveSuccess = 0
		} else {
			r.stats.RequestsThrottled++
			r.mu.Unlock()
			return &CircuitOpenError{Message: "rejecting request, breaker has not reached recovery timeout"}
		}
	}

	now := time.Now()
	elapsed := now.Sub(r.lastFed).Seconds()
	r.tokens = min(r.burst, r.tokens+elapsed*r.stats.CurrentRPS)
	r.lastFed = now

	if r.tokens < 1.0 {
		waitSeconds := (1.0 - r.tokens) / r.stats.CurrentRPS
		r.stats.RequestsThrottled++
		r.tokens = 0.0
		r.mu.Unlock()

		timer := time.NewTimer(time.Duration(waitSeconds * float64(time.Second)))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		r.mu.Lock()
		r.stats.RequestsAllowed++
		r.mu.Unlock()
		return nil
	}

	r.tokens -= 1.0
	r.stats.RequestsAllowed++
	r.mu.Unlock()
	return nil
}

// OnSuccess records a successful upstream call: clears the error streak,
// possibly closes a half-open breaker, and grows the rate by 10%.
func (r *AdaptiveRateLimiter) OnSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.consecutiveErrors = 0
	r.consecutiveSuccess++

	if r.state == CircuitHalfOpen && r.consecutiveSuccess >= r.successThreshold {
		r.state = CircuitClosed
		r.consecutiveSuccess = 0
	}

	if r.stats.CurrentRPS < r.maxRPS {
		r.stats.CurrentRPS = min(r.maxRPS, r.stats.CurrentRPS*1.1)
	}
}

// OnRateLimit records a 429 from upstream: halves the rate and counts
// towards the circuit breaker's error streak.
func (r *AdaptiveRateLimiter) OnRateLimit() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.RateLimitHits++
	r.consecutiveErrors++
	r.stats.CurrentRPS = max(r.minRPS, r.stats.CurrentRPS*0.5)
	r.checkCircuit()
}

// OnError records a non-rate-limit failure: reduces the rate by 20% and
// counts towards the circuit breaker's error streak.
func (r *AdaptiveRateLimiter) OnError() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.ErrorsTotal++
	r.consecutiveErrors++
	r.consecutiveSuccess = 0
	r.stats.CurrentRPS = max(r.minRPS, r.stats.CurrentRPS*0.8)
	r.checkCircuit()
}

// checkCircuit must be called with r.mu held.
func (r *AdaptiveRateLimiter) checkCircuit() {
	if r.consecutiveErrors >= r.errorThreshold && r.state != CircuitOpen {
		r.state = CircuitOpen
		r.circuitOpenedAt = time.Now()
		r.stats.CircuitOpens++
	}
}

func (r *AdaptiveRateLimiter) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.stats
	snapshot.CircuitState = r.state
	return snapshot
}
