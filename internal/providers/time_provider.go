package providers

import (
	"sync"
	"time"
)

// TimeSource supplies the current instant. Every time-dependent
// computation takes one instead of reading the wall clock.
type TimeSource interface {
	Now() time.Time
}

type SystemClock struct{}

func NewTimeProvider() TimeSource {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ManualClock is a settable clock for deterministic runs.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(at time.Time) *ManualClock {
	return &ManualClock{now: at.UTC()}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at.UTC()
}

func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
