package middleware

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether one more request for key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimiter implements a simple in-memory fixed-window rate limiter. It is
// used when no Redis is configured and only limits within one process.
type RateLimiter struct {
	limits map[string]*keyLimit
	mu     sync.Mutex

	maxRequests int
	window      time.Duration
	now         func() time.Time
	stop        chan struct{}
	stopOnce    sync.Once
}

type keyLimit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limits:      make(map[string]*keyLimit),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		stop:        make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup(5 * time.Minute)

	return rl
}

// Allow checks if key has exceeded the rate limit and counts the request
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	// Get or create the window for this key
	limit, exists := rl.limits[key]
	if !exists || !now.Before(limit.resetTime) {
		rl.limits[key] = &keyLimit{
			requests:  1,
			resetTime: now.Add(rl.window),
		}
		return true, nil
	}

	// Check if limit exceeded
	if limit.requests >= rl.maxRequests {
		return false, nil
	}

	// Increment counter
	limit.requests++
	return true, nil
}

// Remaining returns remaining requests for key in the current window
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limit, exists := rl.limits[key]
	if !exists || !rl.now().Before(limit.resetTime) {
		return rl.maxRequests
	}

	remaining := rl.maxRequests - limit.requests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, limit := range rl.limits {
				if !now.Before(limit.resetTime) {
					delete(rl.limits, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.limits = make(map[string]*keyLimit)
}
