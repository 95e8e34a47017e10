package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
)

func TestPercentageThrough_PriorityRules(t *testing.T) {
	tests := []struct {
		name string
		rule nodes.PriorityRule
		want float32
	}{
		{"highest weight", nodes.PriorityHighestWeight, 0.2},
		{"highest percentage through", nodes.PriorityHighestPercentageThrough, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, node := conditionGraph[*nodes.PercentageThroughNode](t, &nodes.PercentageThroughSettings{
				SettingsBase:        base(1),
				EventSearchSettings: wholeBuffer(),
				ID:                  "Step",
				PriorityRule:        tt.rule,
			})
			ctx := inst.Context()
			emitID(ctx, "Step", 0.9, 0.2, true)
			emitID(ctx, "Other", 1, 0.5, true)
			emitID(ctx, "Step", 0.3, 0.8, true)

			assert.InDelta(t, tt.want, node.GetFloat(ctx), tol)
		})
	}
}

func TestPercentageThrough_NotFound(t *testing.T) {
	inst, node := conditionGraph[*nodes.PercentageThroughNode](t, &nodes.PercentageThroughSettings{
		SettingsBase:        base(1),
		EventSearchSettings: wholeBuffer(),
		ID:                  "Step",
	})
	ctx := inst.Context()
	ctx.SampledEvents().EmitStateEvent(0, "Step", graph.StateEventEntry, true)
	emitID(ctx, "Jump", 1, 0.5, true)

	assert.Equal(t, nodes.PercentageThroughNotFound, node.GetFloat(ctx), "state events carry no percentage")
}

func TestPercentageThrough_TieKeepsLaterEvent(t *testing.T) {
	inst, node := conditionGraph[*nodes.PercentageThroughNode](t, &nodes.PercentageThroughSettings{
		SettingsBase:        base(1),
		EventSearchSettings: wholeBuffer(),
		ID:                  "Step",
		PriorityRule:        nodes.PriorityHighestWeight,
	})
	ctx := inst.Context()
	emitID(ctx, "Step", 0.5, 0.1, true)
	emitID(ctx, "Step", 0.5, 0.6, true)

	assert.InDelta(t, 0.6, node.GetFloat(ctx), tol)
}
