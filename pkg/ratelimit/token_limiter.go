package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a token budget per minute window. It is used to stay
// under per-minute token quotas of AI providers.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter for the given tokens-per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMinute,
		windowStart: time.Now(),
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotate()
	return l.maxPerMin - l.used
}

// Wait blocks until n tokens fit in the current window, then consumes them.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		l.rotate()
		if l.used+n <= l.maxPerMin || n > l.maxPerMin {
			l.used += n
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - time.Since(l.windowStart)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// rotate resets the window when a minute has elapsed. Caller must hold mu.
func (l *TokenLimiter) rotate() {
	if time.Since(l.windowStart) >= time.Minute {
		l.used = 0
		l.windowStart = time.Now()
	}
}
