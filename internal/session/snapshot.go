package session

import (
	"sort"

	"github.com/roach88/dayline/internal/grade"
	"github.com/roach88/dayline/internal/ledger"
	"github.com/roach88/dayline/internal/timeline"
)

// Snapshot is a point-in-time copy of everything a session has recorded,
// used by the archive and the scenario harness. Slices are fresh copies in
// deterministic order.
type Snapshot struct {
	SessionID  string
	At         timeline.Coordinate
	Budget     int64
	Reputation int64
	Notes      string

	ReadEmails    []string
	ReadDocuments []string
	Assignments   map[string]string

	Decisions   []ledger.Choice
	Completed   []string
	Actions     []grade.CanonicalAction
	Comparisons []Comparison
	Log         []PlayerAction
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID:     s.id,
		At:            s.clock.Current(),
		Budget:        s.budget,
		Reputation:    s.reputation,
		Notes:         s.notes,
		ReadEmails:    sortedKeys(s.readEmails),
		ReadDocuments: sortedKeys(s.readDocuments),
		Assignments:   s.Assignments(),
		Decisions:     s.ledger.Choices(),
		Completed:     s.ledger.Completed(),
		Actions:       s.Actions(),
		Comparisons:   s.Comparisons(),
		Log:           s.ActionLog(),
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
