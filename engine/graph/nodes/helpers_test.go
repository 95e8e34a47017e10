package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

const tol = 1e-4

// straightClip builds a clip at 30 fps whose root moves one unit per second along dir.
func straightClip(name string, duration float32, dir [3]float32, events ...model.Event) *model.AnimationClip {
	c := &model.AnimationClip{Name: name, Duration: duration, FrameRate: 30, Events: events}
	rm := &model.RootMotionData{Transforms: make([]model.Transform, c.NumFrames())}
	for i := range rm.Transforms {
		rm.Transforms[i] = model.NewTransform(common.Vec3Scale(dir, c.GetTime(int32(i))), common.QuatIdentity)
	}
	c.RootMotion = rm
	return c
}

func idEvent(start float32, id string) *model.IDEvent {
	return &model.IDEvent{EventBase: model.EventBase{Start: start}, ID: id}
}

func newDefinition(root int16, clips []*model.AnimationClip, settings ...graph.Settings) *graph.Definition {
	return &graph.Definition{
		Name:        "test",
		Model:       model.NewModel(model.WithName("test"), model.WithAnimations(clips)),
		Settings:    settings,
		RootNodeIdx: root,
	}
}

func instantiate(t *testing.T, def *graph.Definition, options ...graph.InstanceBuilderOption) *graph.GraphInstance {
	t.Helper()
	inst, err := graph.InstantiateGraph(def, options...)
	require.NoError(t, err)
	t.Cleanup(inst.Destroy)
	return inst
}

func base(idx int16) graph.SettingsBase { return graph.SettingsBase{Index: idx} }

func wholeBuffer() nodes.EventSearchSettings {
	return nodes.EventSearchSettings{SourceStateNodeIdx: graph.InvalidIndex}
}

func clipSettings(idx int16, clipIdx int, loop bool) *nodes.ClipSettings {
	return &nodes.ClipSettings{SettingsBase: base(idx), ClipIdx: clipIdx, PlayRateNodeIdx: graph.InvalidIndex, Loop: loop}
}

// conditionGraph instantiates a graph whose root is an event-less clip at index 0 and whose
// node at index 1 is built from condition, then runs one update so events can be emitted
// by hand before the condition is queried.
func conditionGraph[T graph.Node](t *testing.T, condition graph.Settings) (*graph.GraphInstance, T) {
	t.Helper()
	def := newDefinition(0,
		[]*model.AnimationClip{{Name: "idle", Duration: 1, FrameRate: 30}},
		clipSettings(0, 0, true),
		condition,
	)
	inst := instantiate(t, def)
	inst.Update(0.1, model.IdentityTransform)
	n, ok := inst.Node(1).(T)
	require.True(t, ok, "node 1 has type %T", inst.Node(1))
	return inst, n
}

func emitID(ctx *graph.Context, id string, weight, pct float32, active bool) {
	ctx.SampledEvents().EmitAnimationEvent(0, idEvent(0, id), weight, pct, active)
}

func yaw(deg float32) [4]float32 {
	return common.QuatFromAxisAngle(common.Vec3Up, common.DegToRad(deg))
}

// sampledIDs lists the IDs of every event sampled by the instance's last update, in order.
func sampledIDs(inst *graph.GraphInstance) []string {
	var ids []string
	for _, e := range inst.SampledEvents() {
		ids = append(ids, e.ID())
	}
	return ids
}

func sliceOf(v [3]float32) []float32 { return v[:] }
