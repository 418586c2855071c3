package limiter

import (
	"context"
	"sync"
)

// SemaphoreRateLimiter is a pure concurrency cap with no adaptive RPS
// behavior or circuit breaker. Acquire blocks until a slot is free; the
// slot is released on OnSuccess, OnRateLimit, or OnError (exactly one of
// these must be called per Acquire).
type SemaphoreRateLimiter struct {
	sem   chan struct{}
	mu    sync.Mutex
	stats Stats
}

func NewSemaphoreRateLimiter(maxConcurrent int) *SemaphoreRateLimiter {
	return &SemaphoreRateLimiter{
		sem:   make(chan struct{}, maxConcurrent),
		stats: Stats{CircuitState: CircuitClosed},
	}
}

func (r *SemaphoreRateLimiter) Acquire(ctx context.Context) error {
	r.mu.Lock()
	r.stats.RequestsTotal++
	r.mu.Unlock()

	select {
	case r.sem <- struct{}{}:
		r.mu.Lock()
		r.stats.RequestsAllowed++
		r.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *SemaphoreRateLimiter) release() {
	select {
	case <-r.sem:
	default:
	}
}

func (r *SemaphoreRateLimiter) OnSuccess() {
	r.release()
}

func (r *SemaphoreRateLimiter) OnRateLimit() {
	r.mu.Lock()
	r.stats.RateLimitHits++
	r.mu.Unlock()
	r.release()
}

func (r *SemaphoreRateLimiter) OnError() {
	r.mu.Lock()
	r.stats.ErrorsTotal++
	r.mu.Unlock()
	r.release()
}

func (r *SemaphoreRateLimiter) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
