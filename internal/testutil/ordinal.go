// Package testutil provides deterministic doubles for the session's
// sources of non-reproducibility: the ordinal clock and the ID generator.
package testutil

import "sync"

// DeterministicOrdinal provides a resettable monotonic ordinal source for
// tests.
//
// Unlike timeline.Ordinal, DeterministicOrdinal can be reset for test
// reuse, so the same scenario can run multiple times with identical
// ordinal values.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type DeterministicOrdinal struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicOrdinal creates a counter starting at 0.
// The first call to Next() returns 1.
func NewDeterministicOrdinal() *DeterministicOrdinal {
	return &DeterministicOrdinal{}
}

// Next increments and returns the next ordinal.
func (o *DeterministicOrdinal) Next() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	return o.seq
}

// Current returns the current ordinal without incrementing.
func (o *DeterministicOrdinal) Current() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.seq
}

// Reset resets the counter to 0. After Reset(), the next call to Next()
// returns 1.
func (o *DeterministicOrdinal) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq = 0
}
