package events

import (
	"context"
	"sync"
)

// MemoryBus implements Bus by recording events in memory. Used in tests.
type MemoryBus struct {
	mu     sync.Mutex
	events []*Event
}

// NewMemoryBus returns an empty in-memory bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{}
}

func (b *MemoryBus) Publish(_ context.Context, e *Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *MemoryBus) Close() error { return nil }

// Events returns a snapshot of everything published so far.
func (b *MemoryBus) Events() []*Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*Event, len(b.events))
	copy(out, b.events)
	return out
}
