package http

import (
	"sync"

	"golang.org/x/time/rate"
)

// UserLimiter provides per-user rate limiting using token buckets.
// Each user gets a separate limiter, so one user hammering the toggle
// endpoints cannot starve the others.
type UserLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewUserLimiter creates a UserLimiter allowing rps requests per
// second per user with the given burst.
func NewUserLimiter(rps float64, burst int) *UserLimiter {
	if burst < 1 {
		burst = 1
	}
	return &UserLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Allow reports whether the user may issue a request now. Rejected
// requests are not queued; clients retry.
func (l *UserLimiter) Allow(userID string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[userID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
