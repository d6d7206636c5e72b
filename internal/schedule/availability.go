package schedule

import "github.com/roach88/dayline/internal/timeline"

// Availability is the playability status of an event in a queried cell.
type Availability string

const (
	// StatusPlayed marks an event whose sequence has been completed.
	StatusPlayed Availability = "PLAYED"
	// StatusBlocked marks an event flagged unplayable by content.
	StatusBlocked Availability = "BLOCKED"
	// StatusMissed marks an event in a cell the player has moved past.
	StatusMissed Availability = "MISSED"
	// StatusAvailable marks an event that can be played now or later.
	StatusAvailable Availability = "AVAILABLE"
)

// CompletionChecker answers whether a sequence has been completed.
// Satisfied by the decision ledger.
type CompletionChecker interface {
	IsCompleted(id string) bool
}

// Status computes the availability of an event in a queried cell.
//
// Precedence, strongest first: PLAYED, BLOCKED, MISSED, AVAILABLE.
// A completed event stays PLAYED even in a past cell; a blocked event is
// BLOCKED even when its cell is already behind the player. MISSED means the
// queried cell ranks strictly before the player's current position.
//
// Pure function of its inputs: any cell can be asked about at any time, and
// the answer reflects true progress, not render state.
func Status(ev Event, done CompletionChecker, current, queried timeline.Coordinate) Availability {
	if done != nil && done.IsCompleted(ev.ID) {
		return StatusPlayed
	}
	if ev.Blocked {
		return StatusBlocked
	}
	if queried.Rank() < current.Rank() {
		return StatusMissed
	}
	return StatusAvailable
}
