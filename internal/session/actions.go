package session

import (
	"log/slog"

	"github.com/roach88/dayline/internal/schedule"
	"github.com/roach88/dayline/internal/timeline"
	"github.com/roach88/dayline/internal/value"
)

// UpdateSchedule replaces the staffing assignment map wholesale. Every
// stakeholder id must resolve in the catalog; on any unknown id nothing
// changes.
func (s *Session) UpdateSchedule(assignments map[string]string) error {
	for id := range assignments {
		if _, ok := s.catalog.StakeholderByID(id); !ok {
			return &UnknownStakeholderError{StakeholderID: id}
		}
	}
	next := make(map[string]string, len(assignments))
	for id, post := range assignments {
		next[id] = post
	}
	s.assignments = next
	s.logAction(ActionUpdateSchedule, "", value.Map{
		"assigned": value.Int(int64(len(next))),
	})
	return nil
}

// UpdateScenarioSchedule moves an already-scheduled event to a new cell,
// the debug reroute surface. Returns schedule.UnknownEventError when the
// id was never scheduled; events are not invented here.
func (s *Session) UpdateScenarioSchedule(eventID string, at timeline.Coordinate) error {
	if err := s.index.Reschedule(eventID, at); err != nil {
		return err
	}
	s.logAction(ActionUpdateScenarioSchedule, eventID, value.Map{
		"day":  value.Int(int64(at.Day)),
		"slot": value.String(string(at.Slot)),
	})
	return nil
}

// MarkEmailAsRead records that the player opened an email.
func (s *Session) MarkEmailAsRead(emailID string) {
	if s.readEmails[emailID] {
		return
	}
	s.readEmails[emailID] = true
	s.logAction(ActionReadEmail, emailID, nil)
}

// EmailRead reports whether an email has been opened.
func (s *Session) EmailRead(emailID string) bool {
	return s.readEmails[emailID]
}

// MarkDocumentAsRead records that the player opened a document.
func (s *Session) MarkDocumentAsRead(documentID string) {
	if s.readDocuments[documentID] {
		return
	}
	s.readDocuments[documentID] = true
	s.logAction(ActionReadDocument, documentID, nil)
}

// DocumentRead reports whether a document has been opened.
func (s *Session) DocumentRead(documentID string) bool {
	return s.readDocuments[documentID]
}

// UpdateNotes replaces the player's scratch notes.
func (s *Session) UpdateNotes(text string) {
	s.notes = text
	s.logAction(ActionUpdateNotes, "", value.Map{
		"length": value.Int(int64(len(text))),
	})
}

// AssignStaff posts a stakeholder to a duty station. Reassignment
// overwrites; assigning the current post is a no-op and is not logged.
func (s *Session) AssignStaff(stakeholderID, post string) error {
	if _, ok := s.catalog.StakeholderByID(stakeholderID); !ok {
		return &UnknownStakeholderError{StakeholderID: stakeholderID}
	}
	if s.assignments[stakeholderID] == post {
		return nil
	}
	s.assignments[stakeholderID] = post
	s.logAction(ActionAssignStaff, stakeholderID, value.Map{
		"post": value.String(post),
	})
	return nil
}

// AssignmentFor returns the post a stakeholder is assigned to, if any.
func (s *Session) AssignmentFor(stakeholderID string) (string, bool) {
	post, ok := s.assignments[stakeholderID]
	return post, ok
}

// MapInteract attempts to open a sequence by clicking a stakeholder on the
// map. Returns true when a sequence opened; false when the stakeholder is
// unknown or has nothing playable right now.
func (s *Session) MapInteract(stakeholderID string) bool {
	st, ok := s.catalog.StakeholderByID(stakeholderID)
	if !ok {
		slog.Debug("map interaction with unknown stakeholder", "stakeholder_id", stakeholderID)
		return false
	}
	seqID, ok := s.openSequenceForRole(st.Role)
	if !ok {
		return false
	}
	s.activeSequence = seqID
	s.logAction(ActionMapInteract, stakeholderID, value.Map{
		"sequence": value.String(seqID),
	})
	return true
}

// CallStakeholder opens a sequence by phoning a stakeholder. Unlike
// MapInteract it reports why nothing opened: the stakeholder may be
// unknown, or have no playable sequence.
// Returns the sequence's opening line on success.
func (s *Session) CallStakeholder(stakeholderID string) (string, error) {
	st, ok := s.catalog.StakeholderByID(stakeholderID)
	if !ok {
		return "", &UnknownStakeholderError{StakeholderID: stakeholderID}
	}
	seqID, ok := s.openSequenceForRole(st.Role)
	if !ok {
		return "", &NoSequenceError{StakeholderID: stakeholderID}
	}
	s.activeSequence = seqID
	s.logAction(ActionCall, stakeholderID, value.Map{
		"sequence": value.String(seqID),
	})

	seq, _ := s.catalog.SequenceByID(seqID)
	return seq.Opening, nil
}

// openSequenceForRole finds the first scheduled sequence for a stakeholder
// role that is still playable, in registration order.
func (s *Session) openSequenceForRole(role string) (string, bool) {
	for _, id := range s.index.Events() {
		ev := s.index.Resolve(id)
		if ev.Sequence == nil || ev.Sequence.StakeholderRole != role {
			continue
		}
		cell, ok := s.index.CoordinateOf(id)
		if !ok {
			continue
		}
		if schedule.Status(ev, s.ledger, s.clock.Current(), cell) == schedule.StatusAvailable {
			return id, true
		}
	}
	return "", false
}

// ExecuteWeek advances the clock by a full week and force-resolves any
// inevitable sequence the week leaves behind. Each unresolved node of such
// a sequence takes its first option; the resulting decisions flow through
// the ordinary choice pipeline, consequences and grading included.
func (s *Session) ExecuteWeek() error {
	const slotsPerWeek = 7 * 3

	from := s.clock.Current()
	for i := 0; i < slotsPerWeek; i++ {
		s.clock.AdvanceSlot()
	}
	s.logAction(ActionExecuteWeek, "", value.Map{
		"from": value.String(from.String()),
		"to":   value.String(s.clock.Current().String()),
	})

	for _, seq := range s.catalog.Sequences {
		if !seq.Inevitable || s.ledger.IsCompleted(seq.ID) {
			continue
		}
		cell, scheduled := s.index.CoordinateOf(seq.ID)
		if !scheduled || !cell.Before(s.clock.Current()) {
			continue
		}
		slog.Info("resolving inevitable sequence",
			"sequence_id", seq.ID,
			"scheduled_at", cell.String(),
		)
		for _, nodeID := range seq.Nodes {
			if s.ledger.IsResolved(nodeID) {
				continue
			}
			node, ok := s.catalog.NodeByID(nodeID)
			if !ok || len(node.Options) == 0 {
				continue
			}
			if _, err := s.Choose(nodeID, node.Options[0].ID); err != nil {
				return err
			}
		}
	}
	return nil
}
