package timeline

import "sync/atomic"

// OrdinalSource hands out strictly increasing ordinals used to stamp
// ledger entries, recorded actions, and comparisons.
// Implemented by Ordinal (production) and testutil.DeterministicOrdinal.
type OrdinalSource interface {
	Next() int64
}

// Ordinal is a monotonic logical counter for event ordering.
//
// All recorded decisions and actions are stamped with a strictly increasing
// ordinal from this counter. This gives deterministic ordering without
// wall-clock race conditions, and makes session exports replayable in the
// exact order decisions were taken.
//
// Thread-safety: safe for concurrent use (atomic operations), although the
// session's single-writer design means only one goroutine typically calls
// Next().
type Ordinal struct {
	seq atomic.Int64
}

// NewOrdinal creates a counter starting at 0; the first Next() returns 1.
func NewOrdinal() *Ordinal {
	return &Ordinal{}
}

// NewOrdinalAt creates a counter starting at a specific value.
// Used when resuming a restored session from its last known position.
func NewOrdinalAt(start int64) *Ordinal {
	o := &Ordinal{}
	o.seq.Store(start)
	return o
}

// Next returns the next ordinal and increments the counter.
// Calls are linearizable - each call returns a unique, increasing value.
func (o *Ordinal) Next() int64 {
	return o.seq.Add(1)
}

// Current returns the current ordinal without incrementing.
func (o *Ordinal) Current() int64 {
	return o.seq.Load()
}
