package limiter

import (
	"context"
	"sync"
)

// NullRateLimiter never throttles. Used when rate limiting is disabled in
// settings.
type NullRateLimiter struct {
	mu    sync.Mutex
	stats Stats
}

func NewNullRateLimiter() *NullRateLimiter {
	return &NullRateLimiter{stats: Stats{CircuitState: CircuitClosed}}
}

func (r *NullRateLimiter) Acquire(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.RequestsTotal++
	r.stats.RequestsAllowed++
	return nil
}

func (r *NullRateLimiter) OnSuccess() {}

func (r *NullRateLimiter) OnRateLimit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.RateLimitHits++
}

func (r *NullRateLimiter) OnError() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.ErrorsTotal++
}

func (r *NullRateLimiter) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
