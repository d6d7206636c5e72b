package timeline

import "fmt"

// Coordinate identifies a point on the day x slot grid.
//
// INVARIANT: Day >= 1. The zero value is not a valid coordinate; use
// NewCoordinate or Start().
type Coordinate struct {
	Day  int  `json:"day"`
	Slot Slot `json:"slot"`
}

// NewCoordinate builds a validated coordinate.
func NewCoordinate(day int, slot Slot) (Coordinate, error) {
	if day < 1 {
		return Coordinate{}, fmt.Errorf("day must be >= 1, got %d", day)
	}
	if !slot.Valid() {
		return Coordinate{}, fmt.Errorf("unknown time slot %q", slot)
	}
	return Coordinate{Day: day, Slot: slot}, nil
}

// Start returns the first coordinate of a session: day 1, morning.
func Start() Coordinate {
	return Coordinate{Day: 1, Slot: SlotMorning}
}

// Rank maps the coordinate onto the session's total order:
// day*10 + slotRank. Comparing ranks compares chronological position.
func (c Coordinate) Rank() int {
	return c.Day*10 + c.Slot.Rank()
}

// Before reports whether c is strictly earlier than other.
func (c Coordinate) Before(other Coordinate) bool {
	return c.Rank() < other.Rank()
}

// Next returns the chronologically following coordinate, wrapping
// night -> next day's morning. Days are unbounded here; capping the
// timeline is a content concern, not a clock concern.
func (c Coordinate) Next() Coordinate {
	slot, wrapped := c.Slot.Next()
	day := c.Day
	if wrapped {
		day++
	}
	return Coordinate{Day: day, Slot: slot}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("day %d / %s", c.Day, c.Slot)
}
