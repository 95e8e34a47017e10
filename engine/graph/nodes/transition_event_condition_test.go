package nodes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph/nodes"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

func TestTransitionEventCondition(t *testing.T) {
	allow := model.TransitionRuleAllow
	conditional := model.TransitionRuleConditionallyAllow
	block := model.TransitionRuleBlock

	tests := []struct {
		name      string
		markers   []*model.TransitionEvent
		markerID  string
		condition nodes.MarkerCondition
		want      bool
	}{
		{"allow is any allowed", []*model.TransitionEvent{{Rule: allow}}, "", nodes.MarkerAnyAllowed, true},
		{"allow is fully allowed", []*model.TransitionEvent{{Rule: allow}}, "", nodes.MarkerFullyAllowed, true},
		{"most restrictive wins", []*model.TransitionEvent{{Rule: allow}, {Rule: conditional}}, "", nodes.MarkerFullyAllowed, false},
		{"conditionally allowed", []*model.TransitionEvent{{Rule: allow}, {Rule: conditional}}, "", nodes.MarkerConditionallyAllowed, true},
		{"conditional is any allowed", []*model.TransitionEvent{{Rule: conditional}}, "", nodes.MarkerAnyAllowed, true},
		{"block is not allowed", []*model.TransitionEvent{{Rule: block}, {Rule: allow}}, "", nodes.MarkerAnyAllowed, false},
		{"block", []*model.TransitionEvent{{Rule: allow}, {Rule: block}}, "", nodes.MarkerBlocked, true},
		{"no marker", nil, "", nodes.MarkerAnyAllowed, false},
		{"no marker is not blocked", nil, "", nodes.MarkerBlocked, false},
		{"marker id filters", []*model.TransitionEvent{{Rule: block, ID: "Attack"}, {Rule: allow, ID: "Exit"}}, "Exit", nodes.MarkerFullyAllowed, true},
		{"marker id without match", []*model.TransitionEvent{{Rule: allow, ID: "Attack"}}, "Exit", nodes.MarkerAnyAllowed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, cond := conditionGraph[*nodes.TransitionEventConditionNode](t, &nodes.TransitionEventConditionSettings{
				SettingsBase:        base(1),
				EventSearchSettings: wholeBuffer(),
				MarkerID:            tt.markerID,
				Condition:           tt.condition,
			})
			ctx := inst.Context()
			emitID(ctx, "Exit", 1, 0, true)
			for _, m := range tt.markers {
				ctx.SampledEvents().EmitAnimationEvent(0, m, 1, 0, true)
			}

			assert.Equal(t, tt.want, cond.GetBool(ctx))
		})
	}
}
