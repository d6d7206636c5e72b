// Package timeline models the game's discrete timeline: days split into
// time slots, a total order over (day, slot) coordinates, and the session
// clock that advances a player's position along it.
package timeline

import "fmt"

// Slot is one of the three time blocks a game day is split into.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotNight     Slot = "night"
)

// Slots lists all slots in chronological order.
var Slots = []Slot{SlotMorning, SlotAfternoon, SlotNight}

// slotRanks maps each slot to its 1..3 chronological rank.
var slotRanks = map[Slot]int{
	SlotMorning:   1,
	SlotAfternoon: 2,
	SlotNight:     3,
}

// Rank returns the slot's 1..3 position within a day.
// Panics on an unknown slot - slots come from a closed enum and an unknown
// one indicates corrupted content, not player input.
func (s Slot) Rank() int {
	r, ok := slotRanks[s]
	if !ok {
		panic(fmt.Sprintf("unknown time slot: %q", s))
	}
	return r
}

// Valid reports whether s is one of the three known slots.
func (s Slot) Valid() bool {
	_, ok := slotRanks[s]
	return ok
}

// Next returns the chronologically following slot and whether the day
// wrapped (night -> next day's morning).
func (s Slot) Next() (Slot, bool) {
	switch s {
	case SlotMorning:
		return SlotAfternoon, false
	case SlotAfternoon:
		return SlotNight, false
	case SlotNight:
		return SlotMorning, true
	default:
		panic(fmt.Sprintf("unknown time slot: %q", s))
	}
}

// ParseSlot converts a string to a Slot, validating it against the enum.
func ParseSlot(s string) (Slot, error) {
	slot := Slot(s)
	if !slot.Valid() {
		return "", fmt.Errorf("unknown time slot %q: must be one of %v", s, Slots)
	}
	return slot, nil
}

func (s Slot) String() string {
	return string(s)
}
