package runtime

import (
	"sync/atomic"
	"time"
)

// SlotClock is a monotonic logical clock that numbers processed
// transactions.
//
// Slots order receipts deterministically regardless of wall time.
//
// Thread-safety: SlotClock is safe for concurrent use (atomic operations).
type SlotClock struct {
	seq atomic.Int64
}

// NewSlotClock creates a new clock starting at 0.
func NewSlotClock() *SlotClock {
	return &SlotClock{}
}

// NewSlotClockAt creates a clock resuming after slot start.
// Used on restart to continue from the last recorded receipt.
func NewSlotClockAt(start int64) *SlotClock {
	c := &SlotClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next slot and advances the clock.
func (c *SlotClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued slot without advancing.
func (c *SlotClock) Current() int64 {
	return c.seq.Load()
}

// SystemClock reads the host's wall clock.
type SystemClock struct{}

// UnixTimestamp returns the current time in unix seconds.
func (SystemClock) UnixTimestamp() int64 {
	return time.Now().Unix()
}
