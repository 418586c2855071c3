package limiter

// CircuitState is one of the three states a circuit breaker can be in.
type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half_open"
)

// Stats is a point-in-time snapshot of a rate limiter's counters.
// Returned by value so callers cannot mutate internal state through it.
type Stats struct {
	RequestsTotal     int64
	RequestsAllowed   int64
	RequestsThrottled int64
	RateLimitHits     int64
	ErrorsTotal       int64
	CircuitOpens      int64
	CurrentRPS        float64
	CircuitState      CircuitState
}
