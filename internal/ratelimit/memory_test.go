package ratelimit

import (
	"context"
	"testing"
	"time"
)

var testPolicy = Policy{
	MaxAttempts:   3,
	Window:        time.Minute,
	BlockDuration: 5 * time.Minute,
}

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i < testPolicy.MaxAttempts; i++ {
		d, err := l.Check(ctx, "k", testPolicy)
		if err != nil {
			t.Fatalf("Check %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if want := testPolicy.MaxAttempts - i - 1; d.Remaining != want {
			t.Errorf("attempt %d: Remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	d, err := l.Check(ctx, "k", testPolicy)
	if err != nil {
		t.Fatalf("Check over limit: %v", err)
	}
	if d.Allowed {
		t.Error("attempt over the limit should be blocked")
	}
	if d.RetryAfter != testPolicy.BlockDuration {
		t.Errorf("RetryAfter = %v, want %v", d.RetryAfter, testPolicy.BlockDuration)
	}
}

func TestMemoryLimiter_BlockPersists(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i <= testPolicy.MaxAttempts; i++ {
		l.Check(ctx, "k", testPolicy)
	}
	d, err := l.Check(ctx, "k", testPolicy)
	if err != nil {
		t.Fatalf("Check while blocked: %v", err)
	}
	if d.Allowed {
		t.Error("blocked key should stay blocked")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want > 0", d.RetryAfter)
	}
}

func TestMemoryLimiter_WindowExpiryResetsCount(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	current := time.Now()
	l.now = func() time.Time { return current }

	for i := 0; i < testPolicy.MaxAttempts; i++ {
		l.Check(ctx, "k", testPolicy)
	}

	current = current.Add(testPolicy.Window + time.Second)
	d, err := l.Check(ctx, "k", testPolicy)
	if err != nil {
		t.Fatalf("Check after window: %v", err)
	}
	if !d.Allowed {
		t.Error("attempt in a fresh window should be allowed")
	}
	if want := testPolicy.MaxAttempts - 1; d.Remaining != want {
		t.Errorf("Remaining = %d, want %d", d.Remaining, want)
	}
}

func TestMemoryLimiter_Reset(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i <= testPolicy.MaxAttempts; i++ {
		l.Check(ctx, "k", testPolicy)
	}
	if err := l.Reset(ctx, "k"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	d, err := l.Check(ctx, "k", testPolicy)
	if err != nil {
		t.Fatalf("Check after reset: %v", err)
	}
	if !d.Allowed {
		t.Error("attempt after reset should be allowed")
	}
}

func TestMemoryLimiter_KeysIndependent(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	for i := 0; i <= testPolicy.MaxAttempts; i++ {
		l.Check(ctx, "a", testPolicy)
	}
	d, err := l.Check(ctx, "b", testPolicy)
	if err != nil {
		t.Fatalf("Check other key: %v", err)
	}
	if !d.Allowed {
		t.Error("blocking one key must not affect another")
	}
}
