package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

type sampledState struct {
	id     string
	typ    graph.StateEventType
	active bool
}

func sampledStates(inst *graph.GraphInstance) []sampledState {
	var out []sampledState
	for _, e := range inst.SampledEvents() {
		if e.IsStateEvent() {
			out = append(out, sampledState{e.ID(), e.StateEventType(), e.IsFromActiveBranch()})
		}
	}
	return out
}

func TestStateNode_EventLifecycle(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1}, idEvent(0.05, "Step"), idEvent(0.45, "Late"))
	def := newDefinition(1, []*model.AnimationClip{clip},
		clipSettings(0, 0, true),
		&nodes.StateSettings{
			SettingsBase:  base(1),
			ChildNodeIdx:  0,
			EntryEvents:   []string{"Enter"},
			ExecuteEvents: []string{"Exec"},
			ExitEvents:    []string{"Leave"},
			TimedEvents:   []nodes.StateTimedEvent{{ID: "Begin", Time: 0}, {ID: "Settled", Time: 0.25}},
		},
	)
	inst := instantiate(t, def)
	state := inst.Node(1).(*nodes.StateNode)

	res := inst.Update(0.1, model.IdentityTransform)
	assert.Equal(t, []sampledState{
		{"Enter", graph.StateEventEntry, true},
		{"Begin", graph.StateEventTimed, true},
	}, sampledStates(inst))
	assert.Equal(t, []string{"Enter", "Begin", "Step"}, sampledIDs(inst))
	assert.Equal(t, graph.SampledEventRange{StartIdx: 0, EndIdx: 3}, res.SampledEventRange, "the range covers the state and its child")
	assert.Equal(t, res.SampledEventRange, state.SampledEventRange())

	inst.Update(0.2, model.IdentityTransform)
	assert.Equal(t, []sampledState{
		{"Exec", graph.StateEventFullyInState, true},
		{"Settled", graph.StateEventTimed, true},
	}, sampledStates(inst))
	assert.InDelta(t, 0.3, state.ElapsedTime(), tol)

	inst.Update(0.1, model.IdentityTransform)
	assert.Equal(t, []string{"Exec"}, sampledIDs(inst), "timed events fire once")

	state.StartTransitionOut()
	require.True(t, state.IsTransitioningOut())
	inst.Update(0.1, model.IdentityTransform)
	assert.Equal(t, []sampledState{{"Leave", graph.StateEventExit, false}}, sampledStates(inst))

	all := inst.SampledEvents()
	require.Len(t, all, 2)
	assert.Equal(t, "Late", all[1].ID())
	assert.False(t, all[1].IsFromActiveBranch(), "the child of a leaving state is on an inactive branch")
}

func TestStateNode_ForwardsChildResult(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1})
	clip.SyncMarkers = []model.SyncMarker{{ID: "LeftDown", Time: 0}, {ID: "RightDown", Time: 0.5}}
	def := newDefinition(1, []*model.AnimationClip{clip},
		clipSettings(0, 0, true),
		&nodes.StateSettings{SettingsBase: base(1), ChildNodeIdx: 0},
	)
	inst := instantiate(t, def)
	state := inst.Node(1).(*nodes.StateNode)

	res := inst.Update(0.25, model.IdentityTransform)
	assert.InDeltaSlice(t, []float32{0, 0, 0.25}, res.RootMotionDelta.Translation[:], tol)
	assert.Equal(t, float32(1), state.Duration())
	assert.InDelta(t, 0.25, state.CurrentTime(), tol)
	assert.Same(t, inst.Node(0), state.Child())
	assert.Same(t, state.Child().SyncTrack(), state.SyncTrack())

	st := state.CurrentSyncTime()
	assert.Equal(t, int32(0), st.EventIdx)
	assert.InDelta(t, 0.5, st.PercentageThrough, tol)
}

func TestStateNode_UninitializedSyncTimePanics(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1})
	def := newDefinition(0, []*model.AnimationClip{clip},
		clipSettings(0, 0, true),
		clipSettings(1, 0, true),
		&nodes.StateSettings{SettingsBase: base(2), ChildNodeIdx: 1},
	)
	inst := instantiate(t, def)
	state := inst.Node(2).(*nodes.StateNode)

	assert.Panics(t, func() { state.CurrentSyncTime() })
}
