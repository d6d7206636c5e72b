// Package content holds the read-only narrative catalog: sequences,
// decision nodes, options, simple events, stakeholders, and the authored
// expectations that player actions are graded against.
//
// Catalogs are authored in CUE and compiled with positional error
// reporting. Once compiled, catalog content is immutable for the session.
package content

import (
	"github.com/roach88/dayline/internal/timeline"
	"github.com/roach88/dayline/internal/value"
)

// Lane is a categorical grouping of scheduled events, used for display
// grouping only.
type Lane string

const (
	LaneProactive   Lane = "PROACTIVE"
	LaneInevitable  Lane = "INEVITABLE"
	LaneContingency Lane = "CONTINGENCY"
)

// ValidLane reports whether l is one of the three known lanes.
func ValidLane(l Lane) bool {
	switch l {
	case LaneProactive, LaneInevitable, LaneContingency:
		return true
	}
	return false
}

// Sequence is a multi-step stakeholder interaction: an opening line, an
// ordered list of decision node ids, and a closing line.
// Inevitable sequences auto-trigger and cannot be skipped by the player.
type Sequence struct {
	ID              string
	StakeholderRole string
	Inevitable      bool
	Opening         string
	Closing         string
	Nodes           []string
}

// Lane returns the display lane a sequence-backed event belongs to.
func (s Sequence) Lane() Lane {
	if s.Inevitable {
		return LaneInevitable
	}
	return LaneProactive
}

// DecisionNode is a single branching prompt within a sequence.
type DecisionNode struct {
	ID      string
	Prompt  string
	Options []Option
}

// OptionByID returns the option with the given id, if present.
func (n DecisionNode) OptionByID(id string) (Option, bool) {
	for _, opt := range n.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Option is one selectable response at a decision node. Consequences carry
// the numeric/string effect fields (budget and reputation deltas, flags);
// Response is the stakeholder's narrative reply.
type Option struct {
	ID           string
	Text         string
	Response     string
	Consequences value.Map
}

// SimpleEvent is a scheduled non-sequence event: weather alerts, blocked
// visit notices. Simple events are a data-driven registry so that adding
// one is a content change, not a code change.
type SimpleEvent struct {
	ID          string
	Title       string
	Description string
	Lane        Lane
	Trigger     string
	Blocked     bool
}

// Stakeholder is a named character the player can interact with.
type Stakeholder struct {
	ID   string
	Name string
	Role string
}

// ExpectedAction is the declarative, author-specified constraint set a
// canonical action on Target is graded against. An empty Constraints map
// means any action satisfies the expectation.
type ExpectedAction struct {
	ID           string
	Target       string
	Rule         string // comparison rule name; empty falls back to the default rule
	Constraints  value.Map
	SourceNode   string
	SourceOption string
}

// ScheduleEntry is an authored initial placement of an event on the grid.
type ScheduleEntry struct {
	EventID string
	At      timeline.Coordinate
}

// Catalog is the compiled, immutable content bundle for one scenario.
//
// Declaration-order slices are kept alongside the lookup maps: query
// results and UI listings follow catalog declaration order, which is the
// deterministic tie-break for events colliding on a grid cell.
type Catalog struct {
	Sequences    []Sequence
	Nodes        []DecisionNode
	SimpleEvents []SimpleEvent
	Stakeholders []Stakeholder
	Expected     []ExpectedAction
	Schedule     []ScheduleEntry

	sequencesByID    map[string]*Sequence
	nodesByID        map[string]*DecisionNode
	simpleEventsByID map[string]*SimpleEvent
	stakeholdersByID map[string]*Stakeholder
	expectedByTarget map[string][]*ExpectedAction
}

// index builds the lookup maps from the declaration-order slices.
// Called once after compilation; the catalog must not be mutated after.
func (c *Catalog) index() {
	c.sequencesByID = make(map[string]*Sequence, len(c.Sequences))
	for i := range c.Sequences {
		c.sequencesByID[c.Sequences[i].ID] = &c.Sequences[i]
	}
	c.nodesByID = make(map[string]*DecisionNode, len(c.Nodes))
	for i := range c.Nodes {
		c.nodesByID[c.Nodes[i].ID] = &c.Nodes[i]
	}
	c.simpleEventsByID = make(map[string]*SimpleEvent, len(c.SimpleEvents))
	for i := range c.SimpleEvents {
		c.simpleEventsByID[c.SimpleEvents[i].ID] = &c.SimpleEvents[i]
	}
	c.stakeholdersByID = make(map[string]*Stakeholder, len(c.Stakeholders))
	for i := range c.Stakeholders {
		c.stakeholdersByID[c.Stakeholders[i].ID] = &c.Stakeholders[i]
	}
	c.expectedByTarget = make(map[string][]*ExpectedAction, len(c.Expected))
	for i := range c.Expected {
		target := c.Expected[i].Target
		c.expectedByTarget[target] = append(c.expectedByTarget[target], &c.Expected[i])
	}
}

// SequenceByID looks up a sequence definition.
func (c *Catalog) SequenceByID(id string) (*Sequence, bool) {
	s, ok := c.sequencesByID[id]
	return s, ok
}

// NodeByID looks up a decision node definition.
func (c *Catalog) NodeByID(id string) (*DecisionNode, bool) {
	n, ok := c.nodesByID[id]
	return n, ok
}

// SimpleEventByID looks up a simple-event definition.
func (c *Catalog) SimpleEventByID(id string) (*SimpleEvent, bool) {
	e, ok := c.simpleEventsByID[id]
	return e, ok
}

// StakeholderByID looks up a stakeholder.
func (c *Catalog) StakeholderByID(id string) (*Stakeholder, bool) {
	s, ok := c.stakeholdersByID[id]
	return s, ok
}

// StakeholderByRole returns the first stakeholder with the given role, in
// declaration order.
func (c *Catalog) StakeholderByRole(role string) (*Stakeholder, bool) {
	for i := range c.Stakeholders {
		if c.Stakeholders[i].Role == role {
			return &c.Stakeholders[i], true
		}
	}
	return nil, false
}

// ExpectedForTarget returns the authored expectations graded against
// actions on the given target id, in declaration order.
func (c *Catalog) ExpectedForTarget(target string) []*ExpectedAction {
	return c.expectedByTarget[target]
}

// HasEvent reports whether id resolves to either a sequence or a simple
// event. Resolution order matters elsewhere (sequence catalog first); here
// only existence is asked.
func (c *Catalog) HasEvent(id string) bool {
	if _, ok := c.sequencesByID[id]; ok {
		return true
	}
	_, ok := c.simpleEventsByID[id]
	return ok
}
