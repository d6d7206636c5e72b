// Package schedule places catalog events on the day/slot grid and answers
// queries about what sits in a cell and whether it can still be played.
//
// The index is the mutable half of scheduling (events move); the catalog is
// the immutable half (what events are). Query results follow registration
// order, which makes cell collisions deterministic.
package schedule

import (
	"log/slog"

	"github.com/roach88/dayline/internal/content"
	"github.com/roach88/dayline/internal/timeline"
)

// Index maps event ids to grid coordinates. One coordinate per id;
// registering an id again moves it. Registration order is preserved and is
// the order Query returns ids in.
//
// Thread-safety: none. Mutated only by the session's single logical writer.
type Index struct {
	coords  map[string]timeline.Coordinate
	order   []string
	catalog *content.Catalog
}

// NewIndex builds an index over the catalog, seeded with the catalog's
// authored schedule entries in declaration order.
func NewIndex(cat *content.Catalog) *Index {
	ix := &Index{
		coords:  make(map[string]timeline.Coordinate),
		catalog: cat,
	}
	for _, entry := range cat.Schedule {
		ix.put(entry.EventID, entry.At)
	}
	return ix
}

func (ix *Index) put(eventID string, at timeline.Coordinate) {
	if _, exists := ix.coords[eventID]; !exists {
		ix.order = append(ix.order, eventID)
	}
	ix.coords[eventID] = at
}

// Register places an event on the grid, adding it if absent and moving it
// if already scheduled.
func (ix *Index) Register(eventID string, at timeline.Coordinate) {
	ix.put(eventID, at)
}

// Reschedule moves an already-scheduled event to a new coordinate.
// Returns UnknownEventError if the id has never been scheduled; callers that
// want add-or-move semantics use Register.
func (ix *Index) Reschedule(eventID string, at timeline.Coordinate) error {
	if _, ok := ix.coords[eventID]; !ok {
		return &UnknownEventError{EventID: eventID}
	}
	prev := ix.coords[eventID]
	ix.coords[eventID] = at

	slog.Debug("event rescheduled",
		"event_id", eventID,
		"from", prev.String(),
		"to", at.String(),
	)
	return nil
}

// CoordinateOf returns the current placement of an event.
func (ix *Index) CoordinateOf(eventID string) (timeline.Coordinate, bool) {
	at, ok := ix.coords[eventID]
	return at, ok
}

// Query returns the ids of all events placed at the given coordinate, in
// registration order. The result is a fresh slice; an empty cell yields nil.
func (ix *Index) Query(at timeline.Coordinate) []string {
	var ids []string
	for _, id := range ix.order {
		if ix.coords[id] == at {
			ids = append(ids, id)
		}
	}
	return ids
}

// Events returns all scheduled event ids in registration order.
func (ix *Index) Events() []string {
	out := make([]string, len(ix.order))
	copy(out, ix.order)
	return out
}

// Catalog returns the backing content catalog.
func (ix *Index) Catalog() *content.Catalog {
	return ix.catalog
}
