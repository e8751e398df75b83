package engine

import "sync/atomic"

// Clock is the monotonic logical clock that numbers timer list versions.
//
// Each applied intent takes the next value, so versions are strictly
// increasing and gap-free within one engine lifetime.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// In practice only the Run goroutine calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific version.
// Used when an engine resumes from a replayed journal.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next version and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current version without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
