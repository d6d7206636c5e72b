package session

import (
	"errors"
	"fmt"
)

// MissingProviderError indicates the session was constructed without a
// required collaborator. Wiring is explicit; a nil dependency is a
// programming error surfaced at construction, not a silent default.
type MissingProviderError struct {
	Provider string
}

func (e *MissingProviderError) Error() string {
	return fmt.Sprintf("missing provider: %s is required", e.Provider)
}

// UnknownStakeholderError indicates an interaction named a stakeholder id
// absent from the catalog.
type UnknownStakeholderError struct {
	StakeholderID string
}

func (e *UnknownStakeholderError) Error() string {
	return fmt.Sprintf("unknown stakeholder: %s", e.StakeholderID)
}

// UnknownNodeError indicates a choice named a decision node absent from
// the catalog.
type UnknownNodeError struct {
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node: %s", e.NodeID)
}

// UnknownOptionError indicates a choice named an option the node does not
// offer.
type UnknownOptionError struct {
	NodeID   string
	OptionID string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("node %s has no option %s", e.NodeID, e.OptionID)
}

// NoSequenceError indicates a call reached a stakeholder with no playable
// sequence right now.
type NoSequenceError struct {
	StakeholderID string
}

func (e *NoSequenceError) Error() string {
	return fmt.Sprintf("no available sequence for stakeholder %s", e.StakeholderID)
}

// IsUnknownNode reports whether err is an UnknownNodeError.
func IsUnknownNode(err error) bool {
	var target *UnknownNodeError
	return errors.As(err, &target)
}

// IsUnknownOption reports whether err is an UnknownOptionError.
func IsUnknownOption(err error) bool {
	var target *UnknownOptionError
	return errors.As(err, &target)
}
