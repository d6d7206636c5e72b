package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dayline/internal/grade"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return s
}

func TestLoadScenario_ResolvesContentPath(t *testing.T) {
	s := loadTestScenario(t, "seq_a_push_back.yaml")

	assert.Equal(t, "seq_a_push_back", s.Name)
	assert.Equal(t, filepath.Join("testdata", "content"), s.Content)
	assert.Len(t, s.Steps, 3)
	assert.Len(t, s.Assertions, 6)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad
description: typo in a field name
content: .
stepz:
  - interact: guzman
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
}

func TestLoadScenario_RejectsMultiActionStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad
description: two actions in one step
content: .
steps:
  - interact: guzman
    read_email: EMAIL_1
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one action per step")
}

func TestLoadScenario_RejectsUnknownAssertionType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: bad
description: bogus assertion
content: .
steps:
  - interact: guzman
assertions:
  - {type: vibes}
`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown assertion type "vibes"`)
}

func TestRun_SeqAPushBack(t *testing.T) {
	s := loadTestScenario(t, "seq_a_push_back.yaml")

	result, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, "scenario-1", result.Snapshot.SessionID)
	assert.Equal(t, []string{"SEQ_A"}, result.Snapshot.Completed)
	assert.Equal(t, int64(9500), result.Snapshot.Budget)

	assert.Empty(t, Check(result), "all scenario assertions hold")
}

func TestRun_DeviationWeek(t *testing.T) {
	s := loadTestScenario(t, "deviation_week.yaml")

	result, err := Run(s)
	require.NoError(t, err)

	require.Len(t, result.Snapshot.Comparisons, 2)
	assert.Equal(t, grade.OutcomeDeviation, result.Snapshot.Comparisons[0].Result.Outcome)

	assert.Empty(t, Check(result))
}

func TestRun_FailsFastOnBadStep(t *testing.T) {
	s := loadTestScenario(t, "seq_a_push_back.yaml")
	s.Steps = append(s.Steps, Step{Choose: &ChooseStep{Node: "NOPE", Option: "OPT_A"}})

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[3]")
}

func TestCheck_ReportsFailures(t *testing.T) {
	s := loadTestScenario(t, "seq_a_push_back.yaml")
	result, err := Run(s)
	require.NoError(t, err)

	result.Scenario.Assertions = append(result.Scenario.Assertions,
		Assertion{Type: AssertBudget, Value: 1},
		Assertion{Type: AssertCompleted, Sequence: "SEQ_B"},
	)

	failures := Check(result)
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0], "budget = 9500, want 1")
	assert.Contains(t, failures[1], "SEQ_B not completed")
}

func TestRun_DeterministicTraces(t *testing.T) {
	s := loadTestScenario(t, "seq_a_push_back.yaml")

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	firstJSON, err := TraceJSON(first)
	require.NoError(t, err)
	secondJSON, err := TraceJSON(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}
