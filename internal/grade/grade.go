// Package grade evaluates recorded player actions against authored
// expectations. A failed match is a DEVIATION outcome, which is ordinary
// domain data for the session report, never a Go error.
package grade

import (
	"github.com/roach88/dayline/internal/value"
)

// Outcome is the result category of one expected-vs-actual comparison.
type Outcome string

const (
	OutcomeDoneOK    Outcome = "DONE_OK"
	OutcomeDeviation Outcome = "DEVIATION"
)

// ExpectedAction is the authored side of a comparison: the constraint map a
// canonical action on TargetID must satisfy.
type ExpectedAction struct {
	ID          string
	TargetID    string
	Rule        string // empty selects the default rule
	Constraints value.Map
}

// CanonicalAction is the recorded side of a comparison. ValueFinal holds
// the fields the action itself set; Context holds ambient session fields at
// the moment of recording. The merged view evaluated against constraints is
// Context overlaid by ValueFinal.
type CanonicalAction struct {
	ID         string
	TargetID   string
	ValueFinal value.Map
	Context    value.Map
	Ordinal    int64
}

// MergedView returns the evaluation view of the action: every context field
// plus every final field, with final fields winning on key conflicts.
func (a CanonicalAction) MergedView() value.Map {
	return value.Merge(a.Context, a.ValueFinal)
}

// Deviation describes how an action fell short of an expectation.
// Missing maps each unsatisfied constraint key to its expected value;
// Actual carries the full merged view the action presented, so a report
// reader sees everything the action did, not only the disputed keys.
type Deviation struct {
	Missing value.Map `json:"missing"`
	Actual  value.Map `json:"actual"`
}

// Result is the outcome of grading one action against one expectation.
// Deviation is nil exactly when Outcome is DONE_OK.
type Result struct {
	Outcome   Outcome
	Rule      string
	Deviation *Deviation
}

// DefaultRuleName is the rule applied when an expectation names none.
const DefaultRuleName = "default_rule"

// DefaultRule compares every constraint key against the action's merged
// view using deep equality.
//
// An empty constraint map matches any action: declaring an expectation with
// no constraints means "doing anything at this target counts".
func DefaultRule(expected ExpectedAction, action CanonicalAction) Result {
	if len(expected.Constraints) == 0 {
		return Result{Outcome: OutcomeDoneOK, Rule: DefaultRuleName}
	}

	merged := action.MergedView()
	missing := value.Map{}

	for key, want := range expected.Constraints {
		got, present := merged[key]
		if !present || !value.Equal(want, got) {
			missing[key] = want
		}
	}

	if len(missing) == 0 {
		return Result{Outcome: OutcomeDoneOK, Rule: DefaultRuleName}
	}

	return Result{
		Outcome:   OutcomeDeviation,
		Rule:      DefaultRuleName,
		Deviation: &Deviation{Missing: missing, Actual: merged},
	}
}
