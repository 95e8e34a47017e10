package nodes

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// MarkerCondition is the transition permission a TransitionEventConditionNode requires.
type MarkerCondition uint8

const (
	// MarkerAnyAllowed accepts Allow and ConditionallyAllow markers.
	MarkerAnyAllowed MarkerCondition = iota
	MarkerFullyAllowed
	MarkerConditionallyAllowed
	MarkerBlocked
)

var markerConditionNames = [...]string{"AnyAllowed", "FullyAllowed", "ConditionallyAllowed", "Blocked"}

func (c MarkerCondition) String() string {
	if int(c) < len(markerConditionNames) {
		return markerConditionNames[c]
	}
	return fmt.Sprintf("MarkerCondition(%d)", int(c))
}

// ParseMarkerCondition resolves a marker condition name; empty means AnyAllowed.
func ParseMarkerCondition(s string) (MarkerCondition, error) {
	if s == "" {
		return MarkerAnyAllowed, nil
	}
	for i, name := range markerConditionNames {
		if name == s {
			return MarkerCondition(i), nil
		}
	}
	return MarkerAnyAllowed, fmt.Errorf("unknown marker condition %q", s)
}

// TransitionEventConditionSettings checks the transition permission of the markers sampled
// this frame. When several match, the most restrictive rule decides.
type TransitionEventConditionSettings struct {
	graph.SettingsBase
	EventSearchSettings
	// MarkerID limits the search to markers with this ID. Empty matches every marker.
	MarkerID  string
	Condition MarkerCondition
}

func (s *TransitionEventConditionSettings) Kind() graph.NodeKind {
	return graph.NodeKindTransitionEventCondition
}

func (s *TransitionEventConditionSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *TransitionEventConditionNode { return &TransitionEventConditionNode{} })
	n.settings = s
	n.search.wire(ictx, &s.EventSearchSettings)
	return n
}

// TransitionEventConditionNode evaluates a TransitionEventConditionSettings once per update.
type TransitionEventConditionNode struct {
	graph.BaseNode
	settings *TransitionEventConditionSettings
	search   eventSearch
	result   bool
}

var _ graph.BoolValueNode = &TransitionEventConditionNode{}

func (n *TransitionEventConditionNode) Initialize(ctx *graph.Context) {
	if n.BeginInitialize() {
		n.result = false
	}
}

func (n *TransitionEventConditionNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *TransitionEventConditionNode) ValueType() graph.ValueType { return graph.ValueTypeBool }

func (n *TransitionEventConditionNode) GetBool(ctx *graph.Context) bool {
	n.AssertInitialized()
	if !n.WasUpdated(ctx) {
		n.MarkNodeActive(ctx)
		n.result = n.evaluate(ctx)
	}
	return n.result
}

func (n *TransitionEventConditionNode) evaluate(ctx *graph.Context) bool {
	found := false
	rule := model.TransitionRuleAllow
	n.search.scan(ctx, func(e *graph.SampledEvent) bool {
		marker, ok := e.Event().(*model.TransitionEvent)
		if !ok {
			return true
		}
		if n.settings.MarkerID != "" && marker.ID != n.settings.MarkerID {
			return true
		}
		found = true
		if marker.Rule > rule {
			rule = marker.Rule
		}
		return rule != model.TransitionRuleBlock
	})
	if !found {
		return false
	}

	switch n.settings.Condition {
	case MarkerAnyAllowed:
		return rule != model.TransitionRuleBlock
	case MarkerFullyAllowed:
		return rule == model.TransitionRuleAllow
	case MarkerConditionallyAllowed:
		return rule == model.TransitionRuleConditionallyAllow
	case MarkerBlocked:
		return rule == model.TransitionRuleBlock
	}
	return false
}
