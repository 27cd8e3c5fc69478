package security

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxThrottleEntries = 10_000

// Throttle limits login attempts per client key with a token bucket.
type Throttle struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewThrottle allows perMinute attempts per key with the given burst.
// A non-positive perMinute disables throttling.
func NewThrottle(perMinute, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &Throttle{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether key may attempt another login now.
func (t *Throttle) Allow(key string) bool {
	if t == nil || t.limit == rate.Inf {
		return true
	}

	t.mu.Lock()
	limiter, ok := t.limiters[key]
	if !ok {
		if len(t.limiters) >= maxThrottleEntries {
			t.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[key] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}
