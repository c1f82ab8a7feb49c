package sync

import (
	"context"
	"sync"
)

// CounterTracker mirrors the global sequential number counter. The
// tracker is advisory: it suggests the next number for new orders but
// never enforces uniqueness, the backend owns the authoritative MAX.
type CounterTracker struct {
	mu    sync.RWMutex
	value int
	seed  int
}

// NewCounterTracker creates a tracker with the configured seed, used
// until the first successful refresh
func NewCounterTracker(seed int) *CounterTracker {
	return &CounterTracker{seed: seed}
}

// Refresh re-reads the highest issued number from the backend
func (t *CounterTracker) Refresh(ctx context.Context, client *Client) error {
	n, err := client.LastNumber(ctx)
	if err != nil {
		return err
	}
	t.Observe(n)
	return nil
}

// Observe records a number seen on the wire, for example right after
// creating an order. The tracker only ever moves forward.
func (t *CounterTracker) Observe(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n > t.value {
		t.value = n
	}
}

// Value returns the highest number observed so far, zero before the
// first refresh
func (t *CounterTracker) Value() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// SuggestNext proposes the number for a new order: one past the highest
// observed value. On an empty dataset the seed itself is the suggestion,
// it is the first number ever issued, not the last one.
func (t *CounterTracker) SuggestNext() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.value > 0 {
		return t.value + 1
	}
	return t.seed
}
