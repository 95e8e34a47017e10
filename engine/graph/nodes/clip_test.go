package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/sync_track"
)

func TestClipNode_LoopingPlayback(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1}, idEvent(0, "Start"), idEvent(1, "End"))
	inst := instantiate(t, newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, true)))
	node := inst.Node(0).(*nodes.ClipNode)

	res := inst.Update(0.6, model.IdentityTransform)
	assert.InDelta(t, 0.6, node.CurrentTime(), tol)
	assert.InDeltaSlice(t, []float32{0, 0, 0.6}, res.RootMotionDelta.Translation[:], tol)
	assert.Equal(t, []string{"Start"}, sampledIDs(inst))

	res = inst.Update(0.6, model.IdentityTransform)
	assert.InDelta(t, 0.6, node.PreviousTime(), tol)
	assert.InDelta(t, 0.2, node.CurrentTime(), tol)
	assert.Equal(t, int32(1), node.LoopCount())
	assert.InDeltaSlice(t, []float32{0, 0, 0.6}, res.RootMotionDelta.Translation[:], tol, "motion through the end of the clip is kept")
	assert.Equal(t, []string{"End", "Start"}, sampledIDs(inst), "the tail is sampled before the head")
}

func TestClipNode_NonLoopingHoldsLastFrame(t *testing.T) {
	clip := straightClip("jump", 1, [3]float32{0, 0, 1}, idEvent(0, "Start"), idEvent(0.5, "Mid"), idEvent(1, "End"))
	inst := instantiate(t, newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, false)))
	node := inst.Node(0).(*nodes.ClipNode)

	inst.Update(0.6, model.IdentityTransform)
	assert.Equal(t, []string{"Start", "Mid"}, sampledIDs(inst))

	res := inst.Update(0.6, model.IdentityTransform)
	assert.Equal(t, float32(1), node.CurrentTime())
	assert.Equal(t, []string{"End"}, sampledIDs(inst), "an event on the last frame is sampled")
	assert.InDeltaSlice(t, []float32{0, 0, 0.4}, res.RootMotionDelta.Translation[:], tol)

	res = inst.Update(0.6, model.IdentityTransform)
	assert.Empty(t, sampledIDs(inst), "the last frame's event is not repeated while holding")
	assert.True(t, res.RootMotionDelta.IsNearEqual(model.IdentityTransform, tol))
	assert.Equal(t, int32(0), node.LoopCount())
}

func TestClipNode_DurationEventPercentage(t *testing.T) {
	step := &model.FootEvent{EventBase: model.EventBase{Start: 0.2, Length: 0.4}, Phase: model.FootPhaseLeftFootDown}
	clip := straightClip("walk", 1, [3]float32{0, 0, 1}, step)
	inst := instantiate(t, newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, true)))

	inst.Update(0.1, model.IdentityTransform)
	assert.Zero(t, inst.NumSampledEvents(), "playback has not reached the event")

	inst.Update(0.3, model.IdentityTransform)
	require.Equal(t, int32(1), inst.NumSampledEvents())
	e := inst.SampledEvent(0)
	assert.Same(t, step, e.Event())
	assert.InDelta(t, 0.5, e.PercentageThrough(), tol)
	assert.Equal(t, float32(1), e.Weight())
	assert.Equal(t, int16(0), e.SourceNodeIndex())
	assert.True(t, e.IsFromActiveBranch())

	inst.Update(0.4, model.IdentityTransform)
	require.Equal(t, int32(1), inst.NumSampledEvents())
	assert.Less(t, inst.SampledEvent(0).PercentageThrough(), float32(1), "percentage through stays below 1")
}

func TestClipNode_LoopSeamEmitsDurationEventOnce(t *testing.T) {
	long := &model.IDEvent{EventBase: model.EventBase{Start: 0.1, Length: 0.8}, ID: "Long"}
	clip := straightClip("walk", 1, [3]float32{0, 0, 1}, long)
	inst := instantiate(t, newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, true)))

	inst.Update(0.85, model.IdentityTransform)
	require.Equal(t, []string{"Long"}, sampledIDs(inst))

	// 0.85 -> 0.2 overlaps the event on both sides of the wrap.
	inst.Update(0.35, model.IdentityTransform)
	require.Equal(t, []string{"Long"}, sampledIDs(inst))
	assert.InDelta(t, 0.125, inst.SampledEvent(0).PercentageThrough(), tol, "progress is measured where playback ends")
}

func TestClipNode_PlayRate(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1})
	def := newDefinition(1, []*model.AnimationClip{clip},
		&nodes.FloatParameterSettings{SettingsBase: base(0), Name: "speed", Default: 2},
		&nodes.ClipSettings{SettingsBase: base(1), ClipIdx: 0, PlayRateNodeIdx: 0, Loop: true},
	)
	inst := instantiate(t, def)
	node := inst.Node(1).(*nodes.ClipNode)

	inst.Update(0.1, model.IdentityTransform)
	assert.InDelta(t, 0.2, node.CurrentTime(), tol)

	require.NoError(t, inst.SetFloatParameter("speed", -1))
	res := inst.Update(0.1, model.IdentityTransform)
	assert.InDelta(t, 0.2, node.CurrentTime(), tol, "negative rates do not rewind")
	assert.True(t, res.RootMotionDelta.IsNearEqual(model.IdentityTransform, tol))
}

func TestClipNode_MemoizedWithinUpdate(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1}, idEvent(0, "Start"))
	inst := instantiate(t, newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, true)))

	first := inst.Update(0.1, model.IdentityTransform)
	again := inst.Root().Update(inst.Context())

	assert.Equal(t, first.SampledEventRange, again.SampledEventRange)
	assert.Equal(t, int32(1), inst.NumSampledEvents(), "events are emitted once per update")
	assert.InDelta(t, 0.1, inst.Root().CurrentTime(), tol)
}

func TestClipNode_UpdateSynchronized(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1})
	clip.SyncMarkers = []model.SyncMarker{{ID: "LeftDown", Time: 0}, {ID: "RightDown", Time: 0.5}}
	inst := instantiate(t, newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, true)))
	ctx := inst.Context()
	node := inst.Node(0).(*nodes.ClipNode)

	ctx.BeginUpdate(0.1, model.IdentityTransform)
	res := node.UpdateSynchronized(ctx, sync_track.TimeRange{
		Start: sync_track.Time{EventIdx: 0, PercentageThrough: 0},
		End:   sync_track.Time{EventIdx: 1, PercentageThrough: 0.5},
	})

	assert.InDelta(t, 0.75, node.CurrentTime(), tol, "the sync range, not the delta time, drives playback")
	assert.InDeltaSlice(t, []float32{0, 0, 0.75}, res.RootMotionDelta.Translation[:], tol)
	assert.Equal(t, int32(2), node.SyncTrack().NumEvents())
}

func TestClipNode_InactiveBranchFlagsEvents(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1}, idEvent(0, "Start"))
	inst := instantiate(t, newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, true)))
	ctx := inst.Context()

	ctx.BeginUpdate(0.1, model.IdentityTransform)
	prev := ctx.SetBranchState(graph.BranchStateInactive)
	inst.Root().Update(ctx)
	ctx.SetBranchState(prev)

	require.Equal(t, int32(1), inst.NumSampledEvents())
	assert.False(t, inst.SampledEvent(0).IsFromActiveBranch())
}

func TestClipNode_InitializeAtSyncTime(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1})
	clip.SyncMarkers = []model.SyncMarker{{ID: "LeftDown", Time: 0}, {ID: "RightDown", Time: 0.5}}
	def := newDefinition(0, []*model.AnimationClip{clip}, clipSettings(0, 0, true), clipSettings(1, 0, true))
	inst := instantiate(t, def)
	ctx := inst.Context()

	node := inst.Node(1).(*nodes.ClipNode)
	assert.False(t, node.IsInitialized(), "pose nodes outside the root's subtree stay uninitialized")

	node.InitializeAt(ctx, sync_track.Time{EventIdx: 1, PercentageThrough: 0.5})
	defer node.Shutdown(ctx)
	assert.InDelta(t, 0.75, node.CurrentTime(), tol)
	assert.InDelta(t, 0.75, node.PreviousTime(), tol)
}
