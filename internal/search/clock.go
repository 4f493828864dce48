package search

import "sync/atomic"

// GenerationSource produces the monotonic generations that stamp count
// requests. Clock is the production source; tests substitute a
// resettable clock so generations are assertable.
type GenerationSource interface {
	Next() int64
}

// Clock is a monotonic logical clock. Count requests are stamped with a
// strictly increasing generation from it, which is how a completed
// request proves it is still the latest intent: last request wins, a
// stale result never overwrites fresher state, independent of network
// completion order.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next generation and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current generation without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
