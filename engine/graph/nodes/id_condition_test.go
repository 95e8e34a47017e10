package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

func TestIDCondition_Operators(t *testing.T) {
	tests := []struct {
		name     string
		sampled  []string
		ids      []string
		operator nodes.IDConditionOperator
		want     bool
	}{
		{"or matches any", []string{"A"}, []string{"A", "B"}, nodes.IDConditionOr, true},
		{"or without match", []string{"A"}, []string{"C"}, nodes.IDConditionOr, false},
		{"and needs every id", []string{"A"}, []string{"A", "B"}, nodes.IDConditionAnd, false},
		{"and with every id", []string{"B", "X", "A"}, []string{"A", "B"}, nodes.IDConditionAnd, true},
		{"and with duplicates", []string{"A", "A"}, []string{"A", "B"}, nodes.IDConditionAnd, false},
		{"empty id set", []string{"A"}, nil, nodes.IDConditionOr, false},
		{"empty id set with and", []string{"A"}, nil, nodes.IDConditionAnd, false},
		{"nothing sampled", nil, []string{"A"}, nodes.IDConditionOr, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, cond := conditionGraph[*nodes.IDConditionNode](t, &nodes.IDConditionSettings{
				SettingsBase:        base(1),
				EventSearchSettings: wholeBuffer(),
				IDs:                 tt.ids,
				Operator:            tt.operator,
			})
			ctx := inst.Context()
			for _, id := range tt.sampled {
				emitID(ctx, id, 1, 0, true)
			}
			assert.Equal(t, tt.want, cond.GetBool(ctx))
		})
	}
}

func TestIDCondition_SearchRules(t *testing.T) {
	tests := []struct {
		name string
		rule nodes.SearchRule
		want bool
	}{
		{"all sees state events", nodes.SearchRuleAll, true},
		{"state events only", nodes.SearchRuleStateEventsOnly, true},
		{"animation events only", nodes.SearchRuleAnimationEventsOnly, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, cond := conditionGraph[*nodes.IDConditionNode](t, &nodes.IDConditionSettings{
				SettingsBase: base(1),
				EventSearchSettings: nodes.EventSearchSettings{
					SourceStateNodeIdx: graph.InvalidIndex,
					SearchRule:         tt.rule,
				},
				IDs: []string{"EnterRun"},
			})
			ctx := inst.Context()
			ctx.SampledEvents().EmitStateEvent(0, "EnterRun", graph.StateEventEntry, true)
			assert.Equal(t, tt.want, cond.GetBool(ctx))
		})
	}
}

func TestIDCondition_SkipsIgnoredAndInactive(t *testing.T) {
	inst, cond := conditionGraph[*nodes.IDConditionNode](t, &nodes.IDConditionSettings{
		SettingsBase: base(1),
		EventSearchSettings: nodes.EventSearchSettings{
			SourceStateNodeIdx: graph.InvalidIndex,
			OnlyActiveBranch:   true,
		},
		IDs: []string{"Jump"},
	})
	ctx := inst.Context()
	buffer := ctx.SampledEvents()

	emitID(ctx, "Jump", 1, 0, false)
	emitID(ctx, "Jump", 1, 0, true)
	buffer.SetIgnored(graph.SampledEventRange{StartIdx: buffer.NumSampledEvents() - 1, EndIdx: buffer.NumSampledEvents()}, true)

	assert.False(t, cond.GetBool(ctx), "the inactive event is filtered and the active one is ignored")
}

func TestIDCondition_MemoizedPerUpdate(t *testing.T) {
	inst, cond := conditionGraph[*nodes.IDConditionNode](t, &nodes.IDConditionSettings{
		SettingsBase:        base(1),
		EventSearchSettings: wholeBuffer(),
		IDs:                 []string{"Jump"},
	})
	ctx := inst.Context()
	buffer := ctx.SampledEvents()

	assert.False(t, cond.GetBool(ctx))
	scans := buffer.ScanCount()

	emitID(ctx, "Jump", 1, 0, true)
	assert.False(t, cond.GetBool(ctx), "the result is fixed for the rest of the update")
	assert.Equal(t, scans, buffer.ScanCount(), "a memoized query does not rescan")

	inst.Update(0.1, model.IdentityTransform)
	emitID(ctx, "Jump", 1, 0, true)
	assert.True(t, cond.GetBool(ctx))
}

// TestIDCondition_JumpEndToEnd evaluates a clip emitting "Jump" at its first frame with an
// ID condition looking for it, and checks that a repeated query costs no second scan.
func TestIDCondition_JumpEndToEnd(t *testing.T) {
	jump := straightClip("jump", 1, [3]float32{0, 0, 1}, idEvent(0, "Jump"))
	def := newDefinition(0, []*model.AnimationClip{jump},
		clipSettings(0, 0, false),
		&nodes.IDConditionSettings{SettingsBase: base(1), EventSearchSettings: wholeBuffer(), IDs: []string{"Jump"}},
	)
	inst := instantiate(t, def)
	ctx := inst.Context()
	cond := inst.Node(1).(*nodes.IDConditionNode)

	res := inst.Update(1.0/30.0, model.IdentityTransform)
	require.Equal(t, int32(1), res.SampledEventRange.Length())
	assert.Equal(t, "Jump", inst.SampledEvent(0).ID())

	assert.True(t, cond.GetBool(ctx))
	scans := ctx.SampledEvents().ScanCount()
	assert.True(t, cond.GetBool(ctx))
	assert.Equal(t, scans, ctx.SampledEvents().ScanCount())

	inst.Update(1.0/30.0, model.IdentityTransform)
	assert.False(t, cond.GetBool(ctx), "the event is not sampled again")
}

func TestEventSearch_SourceStateRange(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1}, idEvent(0, "Step"))
	def := newDefinition(1, []*model.AnimationClip{clip},
		clipSettings(0, 0, true),
		&nodes.StateSettings{SettingsBase: base(1), ChildNodeIdx: 0, EntryEvents: []string{"EnterWalk"}},
		&nodes.IDConditionSettings{
			SettingsBase:        base(2),
			EventSearchSettings: nodes.EventSearchSettings{SourceStateNodeIdx: 1},
			IDs:                 []string{"Step", "EnterWalk"},
			Operator:            nodes.IDConditionAnd,
		},
		&nodes.IDConditionSettings{
			SettingsBase:        base(3),
			EventSearchSettings: nodes.EventSearchSettings{SourceStateNodeIdx: 1},
			IDs:                 []string{"Outside"},
		},
		&nodes.IDConditionSettings{
			SettingsBase:        base(4),
			EventSearchSettings: wholeBuffer(),
			IDs:                 []string{"Outside"},
		},
	)
	inst := instantiate(t, def)
	ctx := inst.Context()

	inState := inst.Node(2).(*nodes.IDConditionNode)
	outsideViaState := inst.Node(3).(*nodes.IDConditionNode)
	outsideViaBuffer := inst.Node(4).(*nodes.IDConditionNode)

	assert.False(t, inState.GetBool(ctx), "a source state that has not updated yields an empty range")

	inst.Update(0.1, model.IdentityTransform)
	ctx.SampledEvents().EmitStateEvent(0, "Outside", graph.StateEventEntry, true)

	assert.True(t, inState.GetBool(ctx), "the state's own and its child's events are searched")
	assert.False(t, outsideViaState.GetBool(ctx), "events past the state's range are not searched")
	assert.True(t, outsideViaBuffer.GetBool(ctx))
}

func TestEventSearch_LayerSearchesWholeBuffer(t *testing.T) {
	clip := straightClip("walk", 1, [3]float32{0, 0, 1})
	def := newDefinition(1, []*model.AnimationClip{clip},
		clipSettings(0, 0, true),
		&nodes.StateSettings{SettingsBase: base(1), ChildNodeIdx: 0},
		&nodes.IDConditionSettings{
			SettingsBase:        base(2),
			EventSearchSettings: nodes.EventSearchSettings{SourceStateNodeIdx: 1},
			IDs:                 []string{"Outside"},
		},
	)
	inst := instantiate(t, def)
	ctx := inst.Context()
	cond := inst.Node(2).(*nodes.IDConditionNode)

	inst.Update(0.1, model.IdentityTransform)
	ctx.SampledEvents().EmitStateEvent(0, "Outside", graph.StateEventEntry, true)

	ctx.PushLayer()
	defer ctx.PopLayer()
	assert.True(t, cond.GetBool(ctx))
}

func TestParseIDConditionOperator(t *testing.T) {
	op, err := nodes.ParseIDConditionOperator("And")
	require.NoError(t, err)
	assert.Equal(t, nodes.IDConditionAnd, op)

	op, err = nodes.ParseIDConditionOperator("")
	require.NoError(t, err)
	assert.Equal(t, nodes.IDConditionOr, op)

	_, err = nodes.ParseIDConditionOperator("Xor")
	assert.Error(t, err)
}
