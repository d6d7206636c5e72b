package harness

import (
	"fmt"

	"github.com/roach88/dayline/internal/schedule"
	"github.com/roach88/dayline/internal/timeline"
)

// Check evaluates every assertion of the result's scenario against the
// final session state. Returns one message per failed assertion; an empty
// slice means the scenario passed.
func Check(result *Result) []string {
	var failures []string
	for i, a := range result.Scenario.Assertions {
		if msg := checkOne(result, &a); msg != "" {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %s", i, msg))
		}
	}
	return failures
}

func checkOne(result *Result, a *Assertion) string {
	s := result.Session

	switch a.Type {
	case AssertCompleted:
		if !s.Ledger().IsCompleted(a.Sequence) {
			return fmt.Sprintf("sequence %s not completed (completed: %v)",
				a.Sequence, result.Snapshot.Completed)
		}

	case AssertDecision:
		choice, ok := s.Ledger().ChoiceFor(a.Node)
		if !ok {
			return fmt.Sprintf("node %s has no recorded decision", a.Node)
		}
		if choice.OptionID != a.Option {
			return fmt.Sprintf("node %s resolved with %s, want %s",
				a.Node, choice.OptionID, a.Option)
		}

	case AssertBudget:
		if s.Budget() != a.Value {
			return fmt.Sprintf("budget = %d, want %d", s.Budget(), a.Value)
		}

	case AssertReputation:
		if s.Reputation() != a.Value {
			return fmt.Sprintf("reputation = %d, want %d", s.Reputation(), a.Value)
		}

	case AssertOutcome:
		for _, cmp := range result.Snapshot.Comparisons {
			if cmp.ExpectedID == a.Expected {
				if string(cmp.Result.Outcome) == a.Outcome {
					return ""
				}
				return fmt.Sprintf("expectation %s ended %s, want %s",
					a.Expected, cmp.Result.Outcome, a.Outcome)
			}
		}
		return fmt.Sprintf("no comparison recorded for expectation %s", a.Expected)

	case AssertAvailability:
		slot, err := timeline.ParseSlot(a.Slot)
		if err != nil {
			return err.Error()
		}
		at := timeline.Coordinate{Day: a.Day, Slot: slot}
		if _, ok := s.Index().CoordinateOf(a.Event); !ok {
			return fmt.Sprintf("event %s is not scheduled", a.Event)
		}
		ev := s.Index().Resolve(a.Event)
		status := schedule.Status(ev, s.Ledger(), s.Current(), at)
		if string(status) != a.Status {
			return fmt.Sprintf("event %s reads %s at %s, want %s",
				a.Event, status, at.String(), a.Status)
		}
	}
	return ""
}
