package schedule

import (
	"log/slog"

	"github.com/roach88/dayline/internal/content"
	"github.com/roach88/dayline/internal/timeline"
)

// Event is the resolved view of a scheduled id: enough metadata to list it
// on the grid and decide how it is played. Exactly one of Sequence or
// Simple is set for resolvable ids; placeholder events set neither.
type Event struct {
	ID          string
	Title       string
	Description string
	Lane        content.Lane
	Blocked     bool

	Sequence    *content.Sequence
	Simple      *content.SimpleEvent
	Placeholder bool
}

// Resolve looks up metadata for a scheduled id. The sequence catalog wins
// over the simple-event registry when both know the id. Ids known to
// neither resolve to a diagnostic placeholder so the broken reference stays
// visible on the grid instead of disappearing.
func (ix *Index) Resolve(eventID string) Event {
	if seq, ok := ix.catalog.SequenceByID(eventID); ok {
		return Event{
			ID:          eventID,
			Title:       seq.StakeholderRole,
			Description: seq.Opening,
			Lane:        seq.Lane(),
			Sequence:    seq,
		}
	}
	if simple, ok := ix.catalog.SimpleEventByID(eventID); ok {
		return Event{
			ID:          eventID,
			Title:       simple.Title,
			Description: simple.Description,
			Lane:        simple.Lane,
			Blocked:     simple.Blocked,
			Simple:      simple,
		}
	}

	slog.Warn("scheduled event not found in catalog",
		"event_id", eventID,
	)
	return Event{
		ID:          eventID,
		Title:       "Unresolved event",
		Description: "Scheduled id " + eventID + " has no catalog entry.",
		Lane:        content.LaneContingency,
		Placeholder: true,
	}
}

// EventsAt resolves everything placed at a coordinate, in registration
// order.
func (ix *Index) EventsAt(at timeline.Coordinate) []Event {
	ids := ix.Query(at)
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, ix.Resolve(id))
	}
	return events
}
