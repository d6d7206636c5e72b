package schedule

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dayline/internal/content"
	"github.com/roach88/dayline/internal/timeline"
)

const testCatalog = `
sequence: SEQ_A: {
	stakeholder_role: "Director Medico"
	opening:          "We need to talk."
	nodes: ["N1"]
}
node: N1: {
	prompt: "Choose"
	options: [{id: "OPT_A", text: "ok"}]
}
simple_event: EVENT_STORM: {
	title: "Storm warning"
	lane:  "CONTINGENCY"
}
simple_event: AZUL_MEETING_BLOCKED: {
	title:   "Meeting unavailable"
	blocked: true
}
schedule: SEQ_A: {day: 1, slot: "morning"}
schedule: AZUL_MEETING_BLOCKED: {day: 1, slot: "morning"}
schedule: EVENT_STORM: {day: 1, slot: "afternoon"}
`

func compileTestCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(testCatalog)
	require.NoError(t, v.Err())
	cat, err := content.CompileCatalog(v)
	require.NoError(t, err)
	return cat
}

func at(day int, slot timeline.Slot) timeline.Coordinate {
	return timeline.Coordinate{Day: day, Slot: slot}
}

func TestIndex_SeededFromCatalogSchedule(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	got, ok := ix.CoordinateOf("SEQ_A")
	require.True(t, ok)
	assert.Equal(t, at(1, timeline.SlotMorning), got)

	assert.Equal(t, []string{"SEQ_A", "AZUL_MEETING_BLOCKED", "EVENT_STORM"}, ix.Events())
}

func TestIndex_QueryStableOrder(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	ids := ix.Query(at(1, timeline.SlotMorning))
	assert.Equal(t, []string{"SEQ_A", "AZUL_MEETING_BLOCKED"}, ids,
		"cell collisions resolve in registration order")

	assert.Nil(t, ix.Query(at(3, timeline.SlotNight)), "empty cell")
}

func TestIndex_RescheduleMovesBetweenCells(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	err := ix.Reschedule("SEQ_A", at(1, timeline.SlotAfternoon))
	require.NoError(t, err)

	assert.NotContains(t, ix.Query(at(1, timeline.SlotMorning)), "SEQ_A",
		"no longer in the old cell")
	assert.Equal(t, []string{"AZUL_MEETING_BLOCKED"}, ix.Query(at(1, timeline.SlotMorning)))
	assert.Contains(t, ix.Query(at(1, timeline.SlotAfternoon)), "SEQ_A")
}

func TestIndex_RescheduleUnknownEvent(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	err := ix.Reschedule("GHOST", at(1, timeline.SlotMorning))
	require.Error(t, err)
	assert.True(t, IsUnknownEvent(err))

	var unknownErr *UnknownEventError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "GHOST", unknownErr.EventID)
}

func TestIndex_RegisterAddsAndMoves(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	ix.Register("EXTRA", at(2, timeline.SlotMorning))
	assert.Contains(t, ix.Query(at(2, timeline.SlotMorning)), "EXTRA")

	ix.Register("EXTRA", at(2, timeline.SlotNight))
	assert.NotContains(t, ix.Query(at(2, timeline.SlotMorning)), "EXTRA")
	assert.Contains(t, ix.Query(at(2, timeline.SlotNight)), "EXTRA")

	assert.Len(t, ix.Events(), 4, "re-registering does not duplicate the id")
}

func TestResolve_SequenceWinsOverRegistry(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	ev := ix.Resolve("SEQ_A")
	require.NotNil(t, ev.Sequence)
	assert.Nil(t, ev.Simple)
	assert.Equal(t, "Director Medico", ev.Title)
	assert.Equal(t, content.LaneProactive, ev.Lane)
	assert.False(t, ev.Placeholder)
}

func TestResolve_SimpleEvent(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	ev := ix.Resolve("EVENT_STORM")
	require.NotNil(t, ev.Simple)
	assert.Equal(t, "Storm warning", ev.Title)
	assert.Equal(t, content.LaneContingency, ev.Lane)
	assert.False(t, ev.Blocked)

	blocked := ix.Resolve("AZUL_MEETING_BLOCKED")
	assert.True(t, blocked.Blocked)
}

func TestResolve_UnknownIDGetsPlaceholder(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))
	ix.Register("GHOST", at(1, timeline.SlotMorning))

	ev := ix.Resolve("GHOST")
	assert.True(t, ev.Placeholder)
	assert.Equal(t, "Unresolved event", ev.Title)
	assert.Equal(t, content.LaneContingency, ev.Lane)
	assert.Nil(t, ev.Sequence)
	assert.Nil(t, ev.Simple)
}

func TestEventsAt_ResolvesWholeCell(t *testing.T) {
	ix := NewIndex(compileTestCatalog(t))

	events := ix.EventsAt(at(1, timeline.SlotMorning))
	require.Len(t, events, 2)
	assert.Equal(t, "SEQ_A", events[0].ID)
	assert.Equal(t, "AZUL_MEETING_BLOCKED", events[1].ID)
}
