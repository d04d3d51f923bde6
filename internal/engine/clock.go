package engine

import "sync/atomic"

// Clock is a monotonic logical clock used to stamp trace events.
//
// Trace ordering uses logical sequence numbers rather than wall time so
// that a run's trace is identical across replays.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// which matters if branch evaluation is ever parallelized.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
