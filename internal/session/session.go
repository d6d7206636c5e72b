// Package session orchestrates one playthrough: it owns the clock, the
// schedule index, the decision ledger, and the grading pipeline, and
// exposes the player-facing actions.
//
// A session has a single logical writer. Methods are not internally
// locked; callers drive ticks and actions from one goroutine.
package session

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/dayline/internal/content"
	"github.com/roach88/dayline/internal/grade"
	"github.com/roach88/dayline/internal/ledger"
	"github.com/roach88/dayline/internal/schedule"
	"github.com/roach88/dayline/internal/timeline"
	"github.com/roach88/dayline/internal/value"
)

// IDGenerator produces ids for sessions and recorded comparisons.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, making ids
// sortable by creation time, which helps when browsing the archive.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Config carries the session's collaborators. All fields except Clock are
// required; New fails with MissingProviderError on any nil dependency.
// A nil Clock gets a fresh clock at day 1 morning.
type Config struct {
	Catalog  *content.Catalog
	Clock    *timeline.Clock
	Ordinals timeline.OrdinalSource
	Rules    *grade.Registry
	IDs      IDGenerator

	InitialBudget     int64
	InitialReputation int64
}

// Comparison is one stored grading outcome: which expectation was
// evaluated against which canonical action, and what came of it.
type Comparison struct {
	ID         string
	ExpectedID string
	ActionID   string
	Result     grade.Result
	Ordinal    int64
}

// PlayerAction is one entry in the raw action log: everything the player
// did, graded or not, in ordinal order.
type PlayerAction struct {
	Ordinal int64
	Kind    string
	Target  string
	Detail  value.Map
}

// Action log kinds.
const (
	ActionUpdateSchedule         = "update_schedule"
	ActionUpdateScenarioSchedule = "update_scenario_schedule"
	ActionExecuteWeek            = "execute_week"
	ActionReadEmail              = "read_email"
	ActionReadDocument           = "read_document"
	ActionUpdateNotes            = "update_notes"
	ActionMapInteract            = "map_interact"
	ActionCall                   = "call_stakeholder"
	ActionChoose                 = "choose"
	ActionAssignStaff            = "assign_staff"
)

// Session is one playthrough of a scenario.
type Session struct {
	id       string
	catalog  *content.Catalog
	index    *schedule.Index
	clock    *timeline.Clock
	ledger   *ledger.Ledger
	rules    *grade.Registry
	ordinals timeline.OrdinalSource
	ids      IDGenerator

	budget     int64
	reputation int64
	notes      string

	readEmails    map[string]bool
	readDocuments map[string]bool
	assignments   map[string]string

	activeSequence string

	actionLog   []PlayerAction
	actions     []grade.CanonicalAction
	comparisons []Comparison
}

// New wires a session from explicit collaborators. Fails loudly on
// missing required dependencies rather than defaulting them.
func New(cfg Config) (*Session, error) {
	if cfg.Catalog == nil {
		return nil, &MissingProviderError{Provider: "catalog"}
	}
	if cfg.Ordinals == nil {
		return nil, &MissingProviderError{Provider: "ordinals"}
	}
	if cfg.Rules == nil {
		return nil, &MissingProviderError{Provider: "rules"}
	}
	if cfg.IDs == nil {
		return nil, &MissingProviderError{Provider: "ids"}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = timeline.NewClock()
	}

	s := &Session{
		id:            cfg.IDs.Generate(),
		catalog:       cfg.Catalog,
		index:         schedule.NewIndex(cfg.Catalog),
		clock:         clock,
		ledger:        ledger.New(cfg.Ordinals),
		rules:         cfg.Rules,
		ordinals:      cfg.Ordinals,
		ids:           cfg.IDs,
		budget:        cfg.InitialBudget,
		reputation:    cfg.InitialReputation,
		readEmails:    make(map[string]bool),
		readDocuments: make(map[string]bool),
		assignments:   make(map[string]string),
	}

	slog.Info("session created",
		"session_id", s.id,
		"sequences", len(cfg.Catalog.Sequences),
		"scheduled", len(cfg.Catalog.Schedule),
	)
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Budget returns the current budget balance.
func (s *Session) Budget() int64 { return s.budget }

// Reputation returns the current reputation score.
func (s *Session) Reputation() int64 { return s.reputation }

// Notes returns the player's scratch notes.
func (s *Session) Notes() string { return s.notes }

// Current returns the player's position on the timeline.
func (s *Session) Current() timeline.Coordinate { return s.clock.Current() }

// Clock exposes the session clock for tick-driving callers.
func (s *Session) Clock() *timeline.Clock { return s.clock }

// Index exposes the schedule index for grid queries.
func (s *Session) Index() *schedule.Index { return s.index }

// Ledger exposes the decision ledger read-only by convention.
func (s *Session) Ledger() *ledger.Ledger { return s.ledger }

// ActiveSequence returns the currently open sequence, if any.
func (s *Session) ActiveSequence() (string, bool) {
	return s.activeSequence, s.activeSequence != ""
}

// Actions returns the canonical action record in ordinal order.
func (s *Session) Actions() []grade.CanonicalAction {
	out := make([]grade.CanonicalAction, len(s.actions))
	copy(out, s.actions)
	return out
}

// Comparisons returns the stored grading outcomes in ordinal order.
func (s *Session) Comparisons() []Comparison {
	out := make([]Comparison, len(s.comparisons))
	copy(out, s.comparisons)
	return out
}

// Assignments returns a copy of the current staffing assignments,
// stakeholder id to post.
func (s *Session) Assignments() map[string]string {
	out := make(map[string]string, len(s.assignments))
	for k, v := range s.assignments {
		out[k] = v
	}
	return out
}

// ActionLog returns the raw player action log in ordinal order.
func (s *Session) ActionLog() []PlayerAction {
	out := make([]PlayerAction, len(s.actionLog))
	copy(out, s.actionLog)
	return out
}

func (s *Session) logAction(kind, target string, detail value.Map) {
	s.actionLog = append(s.actionLog, PlayerAction{
		Ordinal: s.ordinals.Next(),
		Kind:    kind,
		Target:  target,
		Detail:  detail,
	})
}

// EventStatus pairs a resolved event with its availability in a cell.
type EventStatus struct {
	Event  schedule.Event
	Status schedule.Availability
}

// Grid resolves everything placed in a cell along with availability as
// seen from the player's current position.
func (s *Session) Grid(at timeline.Coordinate) []EventStatus {
	events := s.index.EventsAt(at)
	out := make([]EventStatus, 0, len(events))
	for _, ev := range events {
		out = append(out, EventStatus{
			Event:  ev,
			Status: schedule.Status(ev, s.ledger, s.clock.Current(), at),
		})
	}
	return out
}
