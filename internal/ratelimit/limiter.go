// Package ratelimit throttles repeated attempts per key, with a hard block
// once the limit is exhausted.
package ratelimit

import (
	"context"
	"time"
)

// Policy describes one limit: at most MaxAttempts within Window, then the key
// is blocked for BlockDuration.
type Policy struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

// Decision is the outcome of one Check call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts attempts per key. Check records an attempt and reports
// whether it is allowed under the policy; Reset clears the key's counters
// and any active block.
type Limiter interface {
	Check(ctx context.Context, key string, p Policy) (Decision, error)
	Reset(ctx context.Context, key string) error
}
