package testutil

import "sync"

// ManualClock is a controllable wall clock for tests.
//
// It never moves on its own: UnixTimestamp returns the same value until Set
// or Advance is called. Advance rejects negative steps so the clock stays
// monotonic non-decreasing across sequential calls.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock creates a clock reading start (unix seconds).
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// UnixTimestamp returns the current reading.
func (c *ManualClock) UnixTimestamp() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by secs and returns the new reading.
// Negative values are treated as zero.
func (c *ManualClock) Advance(secs int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if secs > 0 {
		c.now += secs
	}
	return c.now
}

// Set moves the clock to ts if ts is not earlier than the current reading.
func (c *ManualClock) Set(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.now {
		c.now = ts
	}
}
