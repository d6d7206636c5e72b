package session

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dayline/internal/content"
	"github.com/roach88/dayline/internal/grade"
	"github.com/roach88/dayline/internal/schedule"
	"github.com/roach88/dayline/internal/testutil"
	"github.com/roach88/dayline/internal/timeline"
	"github.com/roach88/dayline/internal/value"
)

const testCatalog = `
stakeholder: guzman: {
	name: "Dr. Guzman"
	role: "Director Medico"
}
stakeholder: ferreyra: {
	name: "Ing. Ferreyra"
	role: "Jefe de Obra"
}
sequence: SEQ_A: {
	stakeholder_role: "Director Medico"
	opening:          "We need to talk about the budget."
	closing:          "Noted."
	nodes: ["N1", "N2"]
}
sequence: SEQ_B: {
	stakeholder_role: "Jefe de Obra"
	inevitable:       true
	opening:          "The inspection moved up."
	nodes: ["N3"]
}
node: N1: {
	prompt: "Cut the imaging budget?"
	options: [
		{id: "OPT_A", text: "Approve", response: "Good.", consequences: {budget: 2000, reputation: -1}},
		{id: "OPT_B", text: "Push back", response: "Show me numbers.", consequences: {budget: -500, reputation: 1}},
		{id: "OPT_C", text: "Defer", response: "We cannot wait."},
	]
}
node: N2: {
	prompt: "Who presents?"
	options: [
		{id: "OPT_A", text: "Yourself", consequences: {reputation: 1}},
		{id: "OPT_B", text: "Delegate", consequences: {reputation: -1}},
	]
}
node: N3: {
	prompt: "Code violation found."
	options: [
		{id: "OPT_A", text: "Remediate", consequences: {budget: -3000, reputation: 2}},
		{id: "OPT_B", text: "Dispute", consequences: {reputation: -2}},
	]
}
simple_event: EVENT_STORM: {
	title: "Storm warning"
}
simple_event: AZUL_MEETING_BLOCKED: {
	title:   "Meeting unavailable"
	blocked: true
}
schedule: SEQ_A: {day: 1, slot: "morning"}
schedule: SEQ_B: {day: 2, slot: "afternoon"}
schedule: EVENT_STORM: {day: 1, slot: "afternoon"}
schedule: AZUL_MEETING_BLOCKED: {day: 1, slot: "morning"}
expected: EXP_N1: {
	target: "N1"
	constraints: {choice: "OPT_B"}
	source: {node: "N1", option: "OPT_B"}
}
expected: EXP_N3: {
	target: "N3"
	constraints: {}
}
`

func testCatalogCompiled(t *testing.T) *content.Catalog {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(testCatalog)
	require.NoError(t, v.Err())
	cat, err := content.CompileCatalog(v)
	require.NoError(t, err)
	return cat
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(Config{
		Catalog:       testCatalogCompiled(t),
		Ordinals:      testutil.NewDeterministicOrdinal(),
		Rules:         grade.NewRegistry(),
		IDs:           testutil.NewFixedIDGenerator("session-test-1"),
		InitialBudget: 10000,
	})
	require.NoError(t, err)
	return s
}

func TestNew_MissingProviders(t *testing.T) {
	cat := testCatalogCompiled(t)

	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no catalog", Config{Ordinals: testutil.NewDeterministicOrdinal(), Rules: grade.NewRegistry(), IDs: UUIDv7Generator{}}, "catalog"},
		{"no ordinals", Config{Catalog: cat, Rules: grade.NewRegistry(), IDs: UUIDv7Generator{}}, "ordinals"},
		{"no rules", Config{Catalog: cat, Ordinals: testutil.NewDeterministicOrdinal(), IDs: UUIDv7Generator{}}, "rules"},
		{"no ids", Config{Catalog: cat, Ordinals: testutil.NewDeterministicOrdinal(), Rules: grade.NewRegistry()}, "ids"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			require.Error(t, err)
			var missing *MissingProviderError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.want, missing.Provider)
		})
	}
}

func TestNew_DefaultsClockToStart(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, timeline.Start(), s.Current())
	assert.Equal(t, "session-test-1", s.ID())
	assert.Equal(t, int64(10000), s.Budget())
}

func TestMapInteract_OpensAvailableSequence(t *testing.T) {
	s := newTestSession(t)

	require.True(t, s.MapInteract("guzman"))
	active, ok := s.ActiveSequence()
	require.True(t, ok)
	assert.Equal(t, "SEQ_A", active)

	prompt, ok := s.CurrentNode()
	require.True(t, ok)
	assert.Equal(t, "N1", prompt.NodeID)
	assert.Len(t, prompt.Options, 3)
}

func TestMapInteract_UnknownStakeholder(t *testing.T) {
	s := newTestSession(t)
	assert.False(t, s.MapInteract("nobody"))
	_, ok := s.ActiveSequence()
	assert.False(t, ok)
}

func TestCallStakeholder_ReturnsOpening(t *testing.T) {
	s := newTestSession(t)

	opening, err := s.CallStakeholder("guzman")
	require.NoError(t, err)
	assert.Equal(t, "We need to talk about the budget.", opening)
}

func TestCallStakeholder_Errors(t *testing.T) {
	s := newTestSession(t)

	_, err := s.CallStakeholder("nobody")
	var unknown *UnknownStakeholderError
	require.ErrorAs(t, err, &unknown)

	// Complete SEQ_A, then guzman has nothing left to talk about.
	mustChoose(t, s, "N1", "OPT_B")
	mustChoose(t, s, "N2", "OPT_A")

	_, err = s.CallStakeholder("guzman")
	var noSeq *NoSequenceError
	require.ErrorAs(t, err, &noSeq)
}

func mustChoose(t *testing.T, s *Session, nodeID, optionID string) ChoiceOutcome {
	t.Helper()
	out, err := s.Choose(nodeID, optionID)
	require.NoError(t, err)
	return out
}

func TestChoose_UnknownNodeAndOption(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Choose("NOPE", "OPT_A")
	assert.True(t, IsUnknownNode(err))

	_, err = s.Choose("N1", "OPT_Z")
	assert.True(t, IsUnknownOption(err))
}

func TestChoose_AppliesConsequences(t *testing.T) {
	s := newTestSession(t)

	out := mustChoose(t, s, "N1", "OPT_B")
	assert.Equal(t, "Show me numbers.", out.Response)
	assert.Equal(t, int64(9500), s.Budget())
	assert.Equal(t, int64(1), s.Reputation())
}

func TestChoose_GradesAgainstExpectation(t *testing.T) {
	s := newTestSession(t)

	out := mustChoose(t, s, "N1", "OPT_B")
	require.Len(t, out.Results, 1)
	cmp := out.Results[0]
	assert.Equal(t, "EXP_N1", cmp.ExpectedID)
	assert.Equal(t, grade.OutcomeDoneOK, cmp.Result.Outcome)
	assert.NotEmpty(t, cmp.ID)
	assert.Equal(t, out.ActionID, cmp.ActionID)
}

func TestChoose_DeviationIsDomainResult(t *testing.T) {
	s := newTestSession(t)

	out := mustChoose(t, s, "N1", "OPT_A")
	require.Len(t, out.Results, 1)
	result := out.Results[0].Result
	require.Equal(t, grade.OutcomeDeviation, result.Outcome)
	require.NotNil(t, result.Deviation)
	assert.True(t, value.Equal(value.String("OPT_B"), result.Deviation.Missing["choice"]))
	assert.True(t, value.Equal(value.String("OPT_A"), result.Deviation.Actual["choice"]))
	assert.True(t, value.Equal(value.Int(12000), result.Deviation.Actual["budget"]),
		"the deviation carries the full merged view of the action")
}

func TestChoose_UngradedNodeProducesNoComparison(t *testing.T) {
	s := newTestSession(t)

	out := mustChoose(t, s, "N2", "OPT_A")
	assert.Empty(t, out.Results, "N2 has no authored expectation")
	assert.NotEmpty(t, out.ActionID, "the canonical action is still recorded")
}

func TestChoose_CompletesSequenceWhenAllNodesResolved(t *testing.T) {
	s := newTestSession(t)

	out := mustChoose(t, s, "N1", "OPT_B")
	assert.Empty(t, out.Completed, "one of two nodes is not completion")

	out = mustChoose(t, s, "N2", "OPT_A")
	assert.Equal(t, []string{"SEQ_A"}, out.Completed)
	assert.True(t, s.Ledger().IsCompleted("SEQ_A"))
}

func TestChoose_OverwriteKeepsLastDecision(t *testing.T) {
	s := newTestSession(t)

	mustChoose(t, s, "N1", "OPT_B")
	mustChoose(t, s, "N1", "OPT_C")

	choice, ok := s.Ledger().ChoiceFor("N1")
	require.True(t, ok)
	assert.Equal(t, "OPT_C", choice.OptionID)

	assert.Len(t, s.Actions(), 2, "every choice emits its own canonical action")
}

func TestChoose_ClosesActiveSequenceOnCompletion(t *testing.T) {
	s := newTestSession(t)

	require.True(t, s.MapInteract("guzman"))
	mustChoose(t, s, "N1", "OPT_B")

	prompt, ok := s.CurrentNode()
	require.True(t, ok)
	assert.Equal(t, "N2", prompt.NodeID, "sequence advances to the next unresolved node")

	mustChoose(t, s, "N2", "OPT_B")
	_, ok = s.ActiveSequence()
	assert.False(t, ok, "completing the sequence closes it")
}

func TestUpdateSchedule_ReplacesAssignments(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.AssignStaff("guzman", "triage"))
	require.NoError(t, s.UpdateSchedule(map[string]string{"ferreyra": "obra"}))

	_, ok := s.AssignmentFor("guzman")
	assert.False(t, ok, "bulk update replaces the whole assignment map")
	post, ok := s.AssignmentFor("ferreyra")
	require.True(t, ok)
	assert.Equal(t, "obra", post)

	err := s.UpdateSchedule(map[string]string{"ferreyra": "obra", "nobody": "x"})
	var unknown *UnknownStakeholderError
	require.ErrorAs(t, err, &unknown)
	post, _ = s.AssignmentFor("ferreyra")
	assert.Equal(t, "obra", post, "a rejected update changes nothing")
}

func TestUpdateScenarioSchedule(t *testing.T) {
	s := newTestSession(t)

	at := timeline.Coordinate{Day: 2, Slot: timeline.SlotMorning}
	require.NoError(t, s.UpdateScenarioSchedule("SEQ_A", at))

	got, ok := s.Index().CoordinateOf("SEQ_A")
	require.True(t, ok)
	assert.Equal(t, at, got)

	err := s.UpdateScenarioSchedule("GHOST", at)
	assert.True(t, schedule.IsUnknownEvent(err),
		"rescheduling never invents event ids")
	_, ok = s.Index().CoordinateOf("GHOST")
	assert.False(t, ok)
}

func TestGrid_StatusesFromCurrentPosition(t *testing.T) {
	s := newTestSession(t)

	morning := timeline.Coordinate{Day: 1, Slot: timeline.SlotMorning}
	cells := s.Grid(morning)
	require.Len(t, cells, 2)
	assert.Equal(t, "SEQ_A", cells[0].Event.ID)
	assert.Equal(t, schedule.StatusAvailable, cells[0].Status)
	assert.Equal(t, "AZUL_MEETING_BLOCKED", cells[1].Event.ID)
	assert.Equal(t, schedule.StatusBlocked, cells[1].Status)

	s.Clock().AdvanceSlot()
	cells = s.Grid(morning)
	assert.Equal(t, schedule.StatusMissed, cells[0].Status, "moving past the cell makes it missed")
	assert.Equal(t, schedule.StatusBlocked, cells[1].Status, "blocked outranks missed")

	mustChoose(t, s, "N1", "OPT_B")
	mustChoose(t, s, "N2", "OPT_A")
	cells = s.Grid(morning)
	assert.Equal(t, schedule.StatusPlayed, cells[0].Status, "played outranks missed")
}

func TestReadTrackingAndNotes(t *testing.T) {
	s := newTestSession(t)

	s.MarkEmailAsRead("EMAIL_1")
	s.MarkEmailAsRead("EMAIL_1")
	assert.True(t, s.EmailRead("EMAIL_1"))
	assert.False(t, s.EmailRead("EMAIL_2"))

	s.MarkDocumentAsRead("DOC_1")
	assert.True(t, s.DocumentRead("DOC_1"))

	s.UpdateNotes("call guzman friday")
	assert.Equal(t, "call guzman friday", s.Notes())

	snap := s.Snapshot()
	assert.Equal(t, []string{"EMAIL_1"}, snap.ReadEmails, "rereading does not duplicate")
	assert.Equal(t, []string{"DOC_1"}, snap.ReadDocuments)
}

func TestExecuteWeek_AdvancesAndResolvesInevitables(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.ExecuteWeek())
	assert.Equal(t, timeline.Coordinate{Day: 8, Slot: timeline.SlotMorning}, s.Current())

	assert.True(t, s.Ledger().IsCompleted("SEQ_B"), "inevitable sequence left behind is force-resolved")
	choice, ok := s.Ledger().ChoiceFor("N3")
	require.True(t, ok)
	assert.Equal(t, "OPT_A", choice.OptionID, "forced resolution takes the first option")
	assert.Equal(t, int64(7000), s.Budget(), "forced choices still carry consequences")

	assert.False(t, s.Ledger().IsCompleted("SEQ_A"), "proactive sequences are simply missed")
}

func TestExecuteWeek_SkipsCompletedInevitables(t *testing.T) {
	s := newTestSession(t)

	mustChoose(t, s, "N3", "OPT_B")
	require.NoError(t, s.ExecuteWeek())

	choice, _ := s.Ledger().ChoiceFor("N3")
	assert.Equal(t, "OPT_B", choice.OptionID, "the player's decision is not overwritten")
}

func TestActionIDs_DeterministicAcrossIdenticalRuns(t *testing.T) {
	run := func() []grade.CanonicalAction {
		s, err := New(Config{
			Catalog:  testCatalogCompiled(t),
			Ordinals: testutil.NewDeterministicOrdinal(),
			Rules:    grade.NewRegistry(),
			IDs:      testutil.NewFixedIDGenerator("fixed-session"),
		})
		require.NoError(t, err)
		mustChoose(t, s, "N1", "OPT_B")
		mustChoose(t, s, "N2", "OPT_A")
		return s.Actions()
	}

	first := run()
	second := run()
	require.Len(t, first, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestSnapshot_CapturesState(t *testing.T) {
	s := newTestSession(t)

	mustChoose(t, s, "N1", "OPT_A")
	s.UpdateNotes("n")

	snap := s.Snapshot()
	assert.Equal(t, "session-test-1", snap.SessionID)
	assert.Equal(t, int64(12000), snap.Budget)
	assert.Equal(t, int64(-1), snap.Reputation)
	require.Len(t, snap.Decisions, 1)
	assert.Equal(t, "N1", snap.Decisions[0].NodeID)
	require.Len(t, snap.Comparisons, 1)
	assert.Equal(t, grade.OutcomeDeviation, snap.Comparisons[0].Result.Outcome)
	assert.NotEmpty(t, snap.Log)
}

func TestAssignStaff(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.AssignStaff("guzman", "triage"))
	post, ok := s.AssignmentFor("guzman")
	require.True(t, ok)
	assert.Equal(t, "triage", post)

	logged := len(s.ActionLog())
	require.NoError(t, s.AssignStaff("guzman", "triage"))
	assert.Len(t, s.ActionLog(), logged, "reassigning the same post is not logged")

	require.NoError(t, s.AssignStaff("guzman", "imaging"))
	post, _ = s.AssignmentFor("guzman")
	assert.Equal(t, "imaging", post)

	err := s.AssignStaff("nobody", "triage")
	var unknown *UnknownStakeholderError
	require.ErrorAs(t, err, &unknown)

	snap := s.Snapshot()
	assert.Equal(t, map[string]string{"guzman": "imaging"}, snap.Assignments)
}
