package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/dayline/internal/value"
)

// TraceJSON renders a result as canonical JSON for golden comparison.
//
// Content-addressed ids (action and comparison hashes) are left out: they
// are already covered by unit tests, and keeping them out makes golden
// files reviewable by hand.
func TraceJSON(result *Result) ([]byte, error) {
	snap := result.Snapshot

	decisions := value.List{}
	for _, d := range snap.Decisions {
		decisions = append(decisions, value.Map{
			"node_id":   value.String(d.NodeID),
			"option_id": value.String(d.OptionID),
			"ordinal":   value.Int(d.Ordinal),
		})
	}

	comparisons := value.List{}
	for _, c := range snap.Comparisons {
		comparisons = append(comparisons, value.Map{
			"expected_id": value.String(c.ExpectedID),
			"ordinal":     value.Int(c.Ordinal),
			"outcome":     value.String(string(c.Result.Outcome)),
		})
	}

	log := value.List{}
	for _, p := range snap.Log {
		log = append(log, value.Map{
			"kind":    value.String(p.Kind),
			"ordinal": value.Int(p.Ordinal),
			"target":  value.String(p.Target),
		})
	}

	completed := value.List{}
	for _, id := range snap.Completed {
		completed = append(completed, value.String(id))
	}

	trace := value.Map{
		"scenario_name": value.String(result.Scenario.Name),
		"final": value.Map{
			"budget":     value.Int(snap.Budget),
			"completed":  completed,
			"day":        value.Int(int64(snap.At.Day)),
			"reputation": value.Int(snap.Reputation),
			"slot":       value.String(string(snap.At.Slot)),
		},
		"decisions":   decisions,
		"comparisons": comparisons,
		"log":         log,
	}

	return value.MarshalCanonical(trace)
}

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	traceJSON, err := TraceJSON(result)
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}
