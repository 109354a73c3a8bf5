package validation

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket per client. Each client may make burst
// requests at once, refilled evenly over window.
type RateLimiter struct {
	burst  float64
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing burst requests per window.
func NewRateLimiter(burst int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		burst:   float64(burst),
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow takes a token from key's bucket and reports whether one was left.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[key] = b
		rl.prune(now)
	}

	elapsed := now.Sub(b.lastSeen)
	b.tokens = min(rl.burst, b.tokens+rl.burst*float64(elapsed)/float64(rl.window))
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// prune forgets clients idle for two windows. Their buckets would be full
// again anyway.
func (rl *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-2 * rl.window)
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}
