package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic wall clock: each call to Now returns the
// previous value plus a fixed step, starting from a fixed base.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int64
}

// NewStepClock creates a clock whose first Now() returns base.
func NewStepClock(base time.Time, step time.Duration) *StepClock {
	return &StepClock{base: base, step: step}
}

// Now returns base + n*step and increments n.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Reset restarts the clock at base.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
