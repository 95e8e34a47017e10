package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

func TestParameterNodes(t *testing.T) {
	def := newDefinition(0,
		[]*model.AnimationClip{{Name: "idle", Duration: 1, FrameRate: 30}},
		clipSettings(0, 0, true),
		&nodes.BoolParameterSettings{SettingsBase: base(1), Name: "crouch", Default: true},
		&nodes.FloatParameterSettings{SettingsBase: base(2), Name: "speed", Default: 1.5},
		&nodes.VectorParameterSettings{SettingsBase: base(3), Name: "aim", Default: [3]float32{0, 0, 1}},
	)
	inst := instantiate(t, def)
	ctx := inst.Context()

	crouch := inst.Node(1).(*nodes.BoolParameterNode)
	speed := inst.Node(2).(*nodes.FloatParameterNode)
	aim := inst.Node(3).(*nodes.VectorParameterNode)

	assert.True(t, crouch.GetBool(ctx), "defaults apply at instantiation")
	assert.Equal(t, float32(1.5), speed.GetFloat(ctx))
	assert.Equal(t, [3]float32{0, 0, 1}, aim.GetVector(ctx))

	assert.NoError(t, inst.SetBoolParameter("crouch", false))
	assert.NoError(t, inst.SetFloatParameter("speed", 3))
	assert.NoError(t, inst.SetVectorParameter("aim", [3]float32{1, 0, 0}))

	assert.False(t, crouch.GetBool(ctx))
	assert.Equal(t, float32(3), speed.GetFloat(ctx))
	assert.Equal(t, [3]float32{1, 0, 0}, aim.GetVector(ctx))

	assert.ErrorIs(t, inst.SetFloatParameter("crouch", 1), graph.ErrParameterTypeMismatch)
	assert.ErrorIs(t, inst.SetBoolParameter("jump", true), graph.ErrUnknownParameter)
	assert.Equal(t, []string{"crouch", "speed", "aim"}, def.ParameterNames())
}
