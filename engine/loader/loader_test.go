package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

const tol = 1e-4

func mustInstantiate(t *testing.T, def *graph.Definition) *graph.GraphInstance {
	t.Helper()
	inst, err := graph.InstantiateGraph(def)
	require.NoError(t, err)
	t.Cleanup(inst.Destroy)
	return inst
}

func TestLoad_Locomotion(t *testing.T) {
	l := NewLoader(BackendTypeYAML)
	def, err := l.Load("testdata/locomotion.yaml")
	require.NoError(t, err)

	assert.Equal(t, "locomotion", def.Name)
	assert.Equal(t, 10, def.NumNodes())
	assert.Equal(t, int16(4), def.RootNodeIdx)
	assert.Equal(t, []string{"speed", "turn_angle"}, def.ParameterNames())

	mdl := def.Model
	require.True(t, mdl.Skinned())
	assert.Equal(t, int32(1), mdl.Skeleton().BoneNameToIndex["spine"])
	assert.Equal(t, []string{"walk"}, mdl.AnimationNames())

	walk := mdl.Animation(0)
	assert.Equal(t, int32(31), walk.NumFrames())
	assert.Len(t, walk.Events, 5)
	assert.Len(t, walk.SyncMarkers, 2)
	require.True(t, walk.RootMotion.IsValid())
	assert.InDeltaSlice(t, []float32{0, 0, 1.5}, walk.RootMotion.Transforms[30].Translation[:], tol)

	clip, ok := def.Settings[2].(*nodes.ClipSettings)
	require.True(t, ok)
	assert.Equal(t, int16(0), clip.PlayRateNodeIdx)
	assert.True(t, clip.Loop)

	warp, ok := def.Settings[3].(*nodes.OrientationWarpSettings)
	require.True(t, ok)
	assert.True(t, warp.IsOffsetNode)
	assert.Equal(t, int16(1), warp.AngleOffsetValueNodeIdx)
	assert.NotNil(t, warp.Easing)

	state := def.Settings[4].(*nodes.StateSettings)
	assert.Equal(t, []nodes.StateTimedEvent{{ID: "Settled", Time: 0.5}}, state.TimedEvents)

	sync := def.Settings[8].(*nodes.SyncEventIndexConditionSettings)
	assert.Equal(t, nodes.SyncTriggerGreaterOrEqual, sync.TriggerMode)
	assert.Equal(t, int32(1), sync.SyncEventIdx)
}

func TestLoad_LocomotionEvaluates(t *testing.T) {
	def, err := NewLoader(BackendTypeYAML).Load("testdata/locomotion.yaml")
	require.NoError(t, err)
	inst := mustInstantiate(t, def)
	ctx := inst.Context()

	warp := inst.Node(3).(*nodes.OrientationWarpNode)
	assert.True(t, warp.IsWarpPending())

	inst.Update(0.3, model.IdentityTransform)
	assert.True(t, warp.IsWarpActive())
	assert.True(t, inst.Node(5).(*nodes.IDConditionNode).GetBool(ctx), "step")
	assert.True(t, inst.Node(6).(*nodes.FootConditionNode).GetBool(ctx), "left phase")
	assert.Equal(t, float32(0), inst.Node(7).(*nodes.PercentageThroughNode).GetFloat(ctx))
	assert.False(t, inst.Node(8).(*nodes.SyncEventIndexConditionNode).GetBool(ctx))
	assert.False(t, inst.Node(9).(*nodes.TransitionEventConditionNode).GetBool(ctx))

	ids := make([]string, 0)
	for _, e := range inst.SampledEvents() {
		if e.IsStateEvent() {
			ids = append(ids, e.ID())
		}
	}
	assert.Equal(t, []string{"EnterWalk"}, ids)

	inst.Update(0.3, model.IdentityTransform)
	assert.False(t, inst.Node(5).(*nodes.IDConditionNode).GetBool(ctx))
	assert.True(t, inst.Node(8).(*nodes.SyncEventIndexConditionNode).GetBool(ctx), "past right down")

	inst.Update(0.25, model.IdentityTransform)
	assert.False(t, inst.Node(6).(*nodes.FootConditionNode).GetBool(ctx))
	assert.True(t, inst.Node(9).(*nodes.TransitionEventConditionNode).GetBool(ctx), "can exit")
}

func TestLoad_Jump(t *testing.T) {
	def, err := NewLoader(BackendTypeYAML).Load("testdata/jump.yaml")
	require.NoError(t, err)

	inst := mustInstantiate(t, def)
	ctx := inst.Context()
	jumped := inst.Node(1).(*nodes.IDConditionNode)
	both := inst.Node(2).(*nodes.IDConditionNode)

	inst.Update(1.0/30.0, model.IdentityTransform)
	assert.True(t, jumped.GetBool(ctx))
	assert.False(t, both.GetBool(ctx))

	inst.Update(0.7, model.IdentityTransform)
	assert.False(t, jumped.GetBool(ctx))

	again := mustInstantiate(t, def)
	again.Update(0.7, model.IdentityTransform)
	assert.True(t, again.Node(2).(*nodes.IDConditionNode).GetBool(again.Context()), "both IDs sampled in one frame")

	aim := inst.Node(4).(*nodes.VectorParameterNode)
	assert.Equal(t, [3]float32{0, 0, 1}, aim.GetVector(ctx))
	assert.False(t, inst.Node(3).(*nodes.BoolParameterNode).GetBool(ctx))
}

func TestLoad_InvalidOrderFailsInstantiation(t *testing.T) {
	def, err := NewLoader(BackendTypeYAML).Load("testdata/invalid_order.yaml")
	require.NoError(t, err, "child order is checked when the graph is built")

	_, err = graph.InstantiateGraph(def)
	assert.ErrorIs(t, err, graph.ErrInvalidNodeIndex)

	var ierr *graph.InstantiationError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, int16(0), ierr.NodeIndex)
}

func TestLoad_Errors(t *testing.T) {
	l := NewLoader(BackendTypeYAML)

	_, err := l.Load("testdata/unknown_kind.yaml")
	assert.ErrorIs(t, err, ErrInvalidAsset)

	_, err = l.Load("testdata/locomotion.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = l.Load("testdata/missing.yaml")
	assert.Error(t, err)
	assert.Empty(t, l.Definitions(), "failed loads are not cached")
}

func TestLoadReader_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "name: [broken"},
		{"no name", "root: a\nnodes: []"},
		{"unknown root", `
name: g
root: missing
clips: [{name: c, duration: 1, frame_rate: 30}]
nodes: [{name: a, kind: clip, clip: c}]`},
		{"duplicate node", `
name: g
root: a
clips: [{name: c, duration: 1, frame_rate: 30}]
nodes:
  - {name: a, kind: clip, clip: c}
  - {name: a, kind: clip, clip: c}`},
		{"unknown clip", `
name: g
root: a
nodes: [{name: a, kind: clip, clip: nope}]`},
		{"unknown reference", `
name: g
root: s
clips: [{name: c, duration: 1, frame_rate: 30}]
nodes:
  - {name: a, kind: clip, clip: c}
  - {name: s, kind: state, child: b}`},
		{"unknown event type", `
name: g
root: a
clips: [{name: c, duration: 1, frame_rate: 30, events: [{type: sound, start: 0}]}]
nodes: [{name: a, kind: clip, clip: c}]`},
		{"value root", `
name: g
root: p
clips: [{name: c, duration: 1, frame_rate: 30}]
nodes:
  - {name: a, kind: clip, clip: c}
  - {name: p, kind: floatParameter}`},
		{"root motion frame count", `
name: g
root: a
clips:
  - name: c
    duration: 1
    frame_rate: 2
    root_motion: {frames: [{translation: [0, 0, 0]}]}
nodes: [{name: a, kind: clip, clip: c}]`},
		{"unknown warp easing", `
name: g
root: w
clips: [{name: c, duration: 1, frame_rate: 30}]
nodes:
  - {name: turn, kind: floatParameter}
  - {name: a, kind: clip, clip: c}
  - {name: w, kind: orientationWarp, clip_node: a, angle_offset: turn, easing: Bounce}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(BackendTypeYAML)
			_, err := l.LoadReader(tt.name, strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidAsset)
			assert.Nil(t, l.Get(tt.name))
		})
	}
}

func TestLoader_Cache(t *testing.T) {
	pre := &graph.Definition{Name: "pre"}
	l := NewLoader(BackendTypeYAML, WithDefinition("pre", pre))
	assert.Same(t, pre, l.Get("pre"))

	first, err := l.Load("testdata/jump.yaml")
	require.NoError(t, err)
	second, err := l.Load("testdata/jump.yaml")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, l.Definitions(), 2)

	l.Evict("testdata/jump.yaml")
	assert.Nil(t, l.Get("testdata/jump.yaml"))
	reloaded, err := l.Load("testdata/jump.yaml")
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, first.NumNodes(), reloaded.NumNodes())
}

func TestExtractRootMotion_Turning(t *testing.T) {
	clip := &model.AnimationClip{Name: "turn", Duration: 1, FrameRate: 4}
	velocity := [3]float32{0, 0, 1}
	rm, err := extractRootMotion(&yamlRootMotion{Velocity: &velocity, YawRate: 90}, clip)
	require.NoError(t, err)
	require.Len(t, rm.Transforms, 5)

	assert.True(t, rm.Transforms[0].IsNearEqual(model.IdentityTransform, tol))
	last := rm.Transforms[4]
	assert.InDelta(t, common.DegToRad(90), common.QuatYaw(last.Rotation), tol)
	assert.Greater(t, last.Translation[0], float32(0), "the path curves towards +X")
}
