package ratelimit

import (
	"sync"
	"time"
)

// Limiter bounds the rate of outbound requests.
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit.
	Allow() bool
	// Wait blocks until the rate limit allows another request.
	Wait()
	// Reset resets the limiter state.
	Reset()
}

// TokenBucket implements a token bucket rate limiter. The bucket refills
// to capacity once per refill period rather than dripping continuously.
type TokenBucket struct {
	capacity     int
	tokens       int
	refillPeriod time.Duration
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a token bucket holding capacity tokens per period.
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow consumes a token if one is available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available.
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill > 0 {
			time.Sleep(timeUntilRefill)
		} else {
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Reset refills the bucket to capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

// Unlimited returns a limiter that always allows. Used when rate limiting
// is disabled and in tests.
func Unlimited() Limiter {
	return unlimited{}
}

type unlimited struct{}

func (unlimited) Allow() bool { return true }
func (unlimited) Wait()       {}
func (unlimited) Reset()      {}

// ForRequestsPerMinute builds a limiter for the given request budget.
// Zero or negative disables limiting.
func ForRequestsPerMinute(rpm int) Limiter {
	if rpm <= 0 {
		return Unlimited()
	}
	return NewTokenBucket(rpm, time.Minute)
}
