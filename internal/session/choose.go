package session

import (
	"fmt"
	"log/slog"

	"github.com/roach88/dayline/internal/content"
	"github.com/roach88/dayline/internal/grade"
	"github.com/roach88/dayline/internal/value"
)

// ChoiceOutcome reports everything one decision produced: the stakeholder's
// narrative response, the grading comparisons, and any sequences the
// decision completed.
type ChoiceOutcome struct {
	NodeID    string
	OptionID  string
	Response  string
	ActionID  string
	Results   []Comparison
	Completed []string
}

// Choose records the option taken at a decision node and runs the full
// decision pipeline: ledger upsert, consequence deltas, canonical action
// emission, grading against authored expectations, and sequence completion
// detection.
//
// A deviation in grading is a normal outcome carried in the result, never
// an error. Errors are reserved for unknown node or option ids.
func (s *Session) Choose(nodeID, optionID string) (ChoiceOutcome, error) {
	node, ok := s.catalog.NodeByID(nodeID)
	if !ok {
		return ChoiceOutcome{}, &UnknownNodeError{NodeID: nodeID}
	}
	opt, ok := node.OptionByID(optionID)
	if !ok {
		return ChoiceOutcome{}, &UnknownOptionError{NodeID: nodeID, OptionID: optionID}
	}

	choice := s.ledger.RecordChoice(nodeID, optionID)
	s.applyConsequences(opt.Consequences)

	action, err := s.emitCanonicalAction(nodeID, optionID, opt.Consequences, choice.Ordinal)
	if err != nil {
		return ChoiceOutcome{}, fmt.Errorf("choose %s/%s: %w", nodeID, optionID, err)
	}
	results, err := s.gradeAction(action)
	if err != nil {
		return ChoiceOutcome{}, fmt.Errorf("choose %s/%s: %w", nodeID, optionID, err)
	}

	completed := s.detectCompletions(nodeID)

	s.logAction(ActionChoose, nodeID, value.Map{
		"option": value.String(optionID),
	})
	slog.Info("choice recorded",
		"session_id", s.id,
		"node_id", nodeID,
		"option_id", optionID,
		"ordinal", choice.Ordinal,
		"comparisons", len(results),
	)

	return ChoiceOutcome{
		NodeID:    nodeID,
		OptionID:  optionID,
		Response:  opt.Response,
		ActionID:  action.ID,
		Results:   results,
		Completed: completed,
	}, nil
}

// applyConsequences folds the option's budget and reputation deltas into
// session state. Other consequence fields carry no session-level effect;
// they still reach grading through the canonical action.
func (s *Session) applyConsequences(consequences value.Map) {
	if delta, ok := consequences["budget"].(value.Int); ok {
		s.budget += int64(delta)
	}
	if delta, ok := consequences["reputation"].(value.Int); ok {
		s.reputation += int64(delta)
	}
}

// emitCanonicalAction builds and records the content-addressed action for
// one decision. ValueFinal is the option's consequence map with the chosen
// option id overlaid; Context captures ambient session fields at the
// moment of recording.
func (s *Session) emitCanonicalAction(nodeID, optionID string, consequences value.Map, ordinal int64) (grade.CanonicalAction, error) {
	valueFinal := value.Map{"choice": value.String(optionID)}
	for k, v := range consequences {
		if k == "choice" {
			continue
		}
		valueFinal[k] = v
	}

	id, err := value.ActionID(s.id, nodeID, valueFinal, ordinal)
	if err != nil {
		return grade.CanonicalAction{}, err
	}

	current := s.clock.Current()
	action := grade.CanonicalAction{
		ID:         id,
		TargetID:   nodeID,
		ValueFinal: valueFinal,
		Context: value.Map{
			"day":        value.Int(int64(current.Day)),
			"slot":       value.String(string(current.Slot)),
			"budget":     value.Int(s.budget),
			"reputation": value.Int(s.reputation),
		},
		Ordinal: ordinal,
	}
	s.actions = append(s.actions, action)
	return action, nil
}

// gradeAction evaluates a canonical action against every authored
// expectation for its target, in catalog declaration order.
func (s *Session) gradeAction(action grade.CanonicalAction) ([]Comparison, error) {
	var results []Comparison
	for _, exp := range s.catalog.ExpectedForTarget(action.TargetID) {
		result := s.rules.Evaluate(grade.ExpectedAction{
			ID:          exp.ID,
			TargetID:    exp.Target,
			Rule:        exp.Rule,
			Constraints: exp.Constraints,
		}, action)

		ordinal := s.ordinals.Next()
		id, err := value.ComparisonID(action.ID, exp.ID, string(result.Outcome), ordinal)
		if err != nil {
			return nil, err
		}
		cmp := Comparison{
			ID:         id,
			ExpectedID: exp.ID,
			ActionID:   action.ID,
			Result:     result,
			Ordinal:    ordinal,
		}
		s.comparisons = append(s.comparisons, cmp)
		results = append(results, cmp)

		if result.Outcome == grade.OutcomeDeviation {
			slog.Info("action deviated from expectation",
				"session_id", s.id,
				"expected_id", exp.ID,
				"action_id", action.ID,
			)
		}
	}
	return results, nil
}

// detectCompletions marks every sequence whose nodes are all resolved once
// nodeID got its choice. Completion is computed here from catalog
// structure; the ledger only stores the verdict.
func (s *Session) detectCompletions(nodeID string) []string {
	var completed []string
	for _, seq := range s.catalog.Sequences {
		if !containsNode(seq.Nodes, nodeID) || s.ledger.IsCompleted(seq.ID) {
			continue
		}
		allResolved := true
		for _, n := range seq.Nodes {
			if !s.ledger.IsResolved(n) {
				allResolved = false
				break
			}
		}
		if !allResolved {
			continue
		}
		if s.ledger.MarkSequenceCompleted(seq.ID) {
			completed = append(completed, seq.ID)
		}
		if s.activeSequence == seq.ID {
			s.activeSequence = ""
		}
	}
	return completed
}

func containsNode(nodes []string, nodeID string) bool {
	for _, n := range nodes {
		if n == nodeID {
			return true
		}
	}
	return false
}

// CurrentNode returns the first unresolved node of the active sequence.
// False when no sequence is open or the open sequence has nothing left.
func (s *Session) CurrentNode() (*DecisionPrompt, bool) {
	if s.activeSequence == "" {
		return nil, false
	}
	seq, ok := s.catalog.SequenceByID(s.activeSequence)
	if !ok {
		return nil, false
	}
	for _, nodeID := range seq.Nodes {
		if s.ledger.IsResolved(nodeID) {
			continue
		}
		node, ok := s.catalog.NodeByID(nodeID)
		if !ok {
			continue
		}
		return &DecisionPrompt{
			SequenceID: seq.ID,
			NodeID:     node.ID,
			Prompt:     node.Prompt,
			Options:    node.Options,
		}, true
	}
	return nil, false
}

// DecisionPrompt is the player-facing view of the node awaiting a choice.
type DecisionPrompt struct {
	SequenceID string
	NodeID     string
	Prompt     string
	Options    []content.Option
}
