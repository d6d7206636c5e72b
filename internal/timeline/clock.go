package timeline

import "log/slog"

// DefaultSlotDuration is the countdown length of one time slot, in ticks.
// The original trainer runs one tick per second with a 90 second slot.
const DefaultSlotDuration = 90

// Clock holds the player's current position on the timeline and the
// countdown that drives automatic slot advancement.
//
// The countdown is decremented by an external periodic trigger calling
// Tick(); the clock itself owns no timer. While paused, ticks are ignored.
// The coordinate only ever moves forward within a session.
//
// Thread-safety: none. The clock is mutated from the single logical writer
// that owns the session; callers must not tick from multiple goroutines.
type Clock struct {
	current      Coordinate
	countdown    int
	slotDuration int
	paused       bool
}

// ClockOption configures a Clock.
type ClockOption func(*Clock)

// WithSlotDuration overrides the countdown length per slot, in ticks.
func WithSlotDuration(ticks int) ClockOption {
	return func(c *Clock) {
		if ticks > 0 {
			c.slotDuration = ticks
		}
	}
}

// NewClock creates a clock positioned at the start coordinate with a full
// countdown.
func NewClock(opts ...ClockOption) *Clock {
	c := &Clock{
		current:      Start(),
		slotDuration: DefaultSlotDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.countdown = c.slotDuration
	return c
}

// NewClockAt creates a clock positioned at a specific coordinate.
// Used when restoring an in-flight session.
func NewClockAt(at Coordinate, opts ...ClockOption) *Clock {
	c := NewClock(opts...)
	c.current = at
	return c
}

// Current returns the player's current coordinate.
func (c *Clock) Current() Coordinate {
	return c.current
}

// Countdown returns the remaining ticks in the current slot.
func (c *Clock) Countdown() int {
	return c.countdown
}

// SlotDuration returns the configured countdown length per slot.
func (c *Clock) SlotDuration() int {
	return c.slotDuration
}

// Paused reports whether the countdown is frozen.
func (c *Clock) Paused() bool {
	return c.paused
}

// TogglePause flips the paused flag and returns the new state.
// While paused, Tick does not decrement the countdown.
func (c *Clock) TogglePause() bool {
	c.paused = !c.paused
	return c.paused
}

// AdvanceSlot moves to the next slot in chronological order, wrapping to
// the next day past night, and resets the countdown. Always succeeds; no
// upper bound on day is enforced here.
func (c *Clock) AdvanceSlot() Coordinate {
	prev := c.current
	c.current = c.current.Next()
	c.countdown = c.slotDuration

	slog.Debug("slot advanced",
		"from", prev.String(),
		"to", c.current.String(),
	)
	return c.current
}

// Tick consumes one countdown unit. On expiry it invokes AdvanceSlot
// exactly once and reports advanced=true. Ticks while paused are no-ops.
//
// The caller guarantees non-overlapping ticks (single timer, debounced at
// the call site).
func (c *Clock) Tick() (advanced bool) {
	if c.paused {
		return false
	}
	c.countdown--
	if c.countdown > 0 {
		return false
	}
	c.AdvanceSlot()
	return true
}
