package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements Limiter with in-process state. Suitable for tests
// and single-instance deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	count        int
	windowEnd    time.Time
	blockedUntil time.Time
}

// NewMemoryLimiter returns an empty in-process limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: make(map[string]*memoryEntry), now: time.Now}
}

// Check records one attempt for key and reports whether it is allowed.
func (l *MemoryLimiter) Check(_ context.Context, key string, p Policy) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := l.entries[key]
	if e == nil {
		e = &memoryEntry{}
		l.entries[key] = e
	}

	if now.Before(e.blockedUntil) {
		return Decision{Allowed: false, RetryAfter: e.blockedUntil.Sub(now)}, nil
	}

	if now.After(e.windowEnd) {
		e.count = 0
		e.windowEnd = now.Add(p.Window)
	}

	e.count++
	if e.count > p.MaxAttempts {
		e.blockedUntil = now.Add(p.BlockDuration)
		e.count = 0
		e.windowEnd = time.Time{}
		return Decision{Allowed: false, RetryAfter: p.BlockDuration}, nil
	}

	return Decision{
		Allowed:    true,
		Remaining:  p.MaxAttempts - e.count,
		RetryAfter: e.windowEnd.Sub(now),
	}, nil
}

// Reset clears the key's attempt counter and any active block.
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}
