// Package ledger records the player's explicit decisions and the set of
// completed sequences.
//
// The ledger is bookkeeping only: it never decides when a sequence is
// complete. The session computes completion from catalog structure and
// tells the ledger.
package ledger

import (
	"log/slog"
	"sort"

	"github.com/roach88/dayline/internal/timeline"
)

// Choice is one recorded decision: which option was taken at which node,
// stamped with the logical ordinal of the moment it was (last) taken.
type Choice struct {
	NodeID   string `json:"node_id"`
	OptionID string `json:"option_id"`
	Ordinal  int64  `json:"ordinal"`
}

// Ledger holds decisions keyed by node id and the completed-sequence set.
//
// Thread-safety: none. Written only by the session's single logical writer.
type Ledger struct {
	choices   map[string]Choice
	completed map[string]bool
	ordinals  timeline.OrdinalSource
}

// New creates an empty ledger stamping entries from the given ordinal
// source.
func New(ordinals timeline.OrdinalSource) *Ledger {
	return &Ledger{
		choices:   make(map[string]Choice),
		completed: make(map[string]bool),
		ordinals:  ordinals,
	}
}

// RecordChoice records the option taken at a node. Recording again for the
// same node overwrites the previous choice: the last decision stands, and
// the entry carries a fresh ordinal so the log reflects when the player
// changed their mind.
func (l *Ledger) RecordChoice(nodeID, optionID string) Choice {
	c := Choice{
		NodeID:   nodeID,
		OptionID: optionID,
		Ordinal:  l.ordinals.Next(),
	}
	if prev, existed := l.choices[nodeID]; existed && prev.OptionID != optionID {
		slog.Debug("choice overwritten",
			"node_id", nodeID,
			"was", prev.OptionID,
			"now", optionID,
		)
	}
	l.choices[nodeID] = c
	return c
}

// IsResolved reports whether a node has a recorded choice.
func (l *Ledger) IsResolved(nodeID string) bool {
	_, ok := l.choices[nodeID]
	return ok
}

// ChoiceFor returns the current choice at a node.
func (l *Ledger) ChoiceFor(nodeID string) (Choice, bool) {
	c, ok := l.choices[nodeID]
	return c, ok
}

// MarkSequenceCompleted adds a sequence to the completed set. Idempotent;
// returns true only on the first call for a given id.
func (l *Ledger) MarkSequenceCompleted(sequenceID string) bool {
	if l.completed[sequenceID] {
		return false
	}
	l.completed[sequenceID] = true
	slog.Info("sequence completed", "sequence_id", sequenceID)
	return true
}

// IsCompleted reports whether a sequence is in the completed set.
func (l *Ledger) IsCompleted(sequenceID string) bool {
	return l.completed[sequenceID]
}

// Choices returns a snapshot of all recorded decisions in ordinal order.
func (l *Ledger) Choices() []Choice {
	out := make([]Choice, 0, len(l.choices))
	for _, c := range l.choices {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

// Completed returns a sorted snapshot of completed sequence ids.
func (l *Ledger) Completed() []string {
	out := make([]string, 0, len(l.completed))
	for id := range l.completed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
