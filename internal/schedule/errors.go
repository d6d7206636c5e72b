package schedule

import (
	"errors"
	"fmt"
)

// UnknownEventError indicates a schedule operation named an event id that
// was never placed on the grid.
type UnknownEventError struct {
	EventID string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event: %s is not scheduled", e.EventID)
}

// IsUnknownEvent reports whether err is an UnknownEventError.
func IsUnknownEvent(err error) bool {
	var target *UnknownEventError
	return errors.As(err, &target)
}
