package ratelimiter

import (
	"sync"
	"time"
)

// TokenBucket implements the RateLimiter interface using the token bucket
// algorithm. It allows bursts of requests up to the bucket's capacity while
// bounding the sustained rate.
type TokenBucket struct {
	rate     float64 // tokens generated per second
	capacity float64 // burst ceiling

	mu       sync.Mutex
	tokens   float64
	lastFill time.Time
	now      func() time.Time // injectable for tests
}

// NewTokenBucket creates a full bucket.
// rate: tokens generated per second. capacity: the burst size.
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	tb := &TokenBucket{
		rate:     rate,
		capacity: float64(capacity),
		tokens:   float64(capacity),
		now:      time.Now,
	}
	tb.lastFill = tb.now()
	return tb
}

// Allow refills the bucket for the elapsed time and consumes one token if
// available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if elapsed := now.Sub(tb.lastFill); elapsed > 0 {
		tb.tokens += elapsed.Seconds() * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastFill = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}
