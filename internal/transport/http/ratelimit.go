package http

import (
	"sync"
	"time"
)

// rateLimiter is a fixed one minute window counter shared by the
// credential endpoints. A limit of zero or less disables it.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	counter int
	window  time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: limit, window: time.Now()}
}

func (r *rateLimiter) allow() bool {
	if r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if now.Sub(r.window) >= time.Minute {
		r.window = now
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}
