package nodes

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// PhaseCondition is the foot phase a FootConditionNode tests for. LeftPhase and RightPhase
// each span half a locomotion cycle and so accept two underlying phases.
type PhaseCondition uint8

const (
	PhaseLeftFootDown PhaseCondition = iota
	PhaseLeftFootPassing
	PhaseLeftPhase
	PhaseRightFootDown
	PhaseRightFootPassing
	PhaseRightPhase
)

var phaseConditionNames = [...]string{
	"LeftFootDown", "LeftFootPassing", "LeftPhase",
	"RightFootDown", "RightFootPassing", "RightPhase",
}

func (c PhaseCondition) String() string {
	if int(c) < len(phaseConditionNames) {
		return phaseConditionNames[c]
	}
	return fmt.Sprintf("PhaseCondition(%d)", int(c))
}

// ParsePhaseCondition resolves a phase condition name.
func ParsePhaseCondition(s string) (PhaseCondition, error) {
	for i, name := range phaseConditionNames {
		if name == s {
			return PhaseCondition(i), nil
		}
	}
	return PhaseLeftFootDown, fmt.Errorf("unknown phase condition %q", s)
}

// Matches reports whether a sampled foot phase satisfies the condition.
func (c PhaseCondition) Matches(p model.FootPhase) bool {
	switch c {
	case PhaseLeftFootDown:
		return p == model.FootPhaseLeftFootDown
	case PhaseLeftFootPassing:
		return p == model.FootPhaseLeftFootPassing
	case PhaseLeftPhase:
		return p == model.FootPhaseLeftFootDown || p == model.FootPhaseRightFootPassing
	case PhaseRightFootDown:
		return p == model.FootPhaseRightFootDown
	case PhaseRightFootPassing:
		return p == model.FootPhaseRightFootPassing
	case PhaseRightPhase:
		return p == model.FootPhaseRightFootDown || p == model.FootPhaseLeftFootPassing
	}
	return false
}

// FootConditionSettings checks whether a foot event in a given phase was sampled this frame.
type FootConditionSettings struct {
	graph.SettingsBase
	EventSearchSettings
	Condition PhaseCondition
}

func (s *FootConditionSettings) Kind() graph.NodeKind { return graph.NodeKindFootCondition }

func (s *FootConditionSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *FootConditionNode { return &FootConditionNode{} })
	n.settings = s
	n.search.wire(ictx, &s.EventSearchSettings)
	return n
}

// FootConditionNode evaluates a FootConditionSettings once per update.
type FootConditionNode struct {
	graph.BaseNode
	settings *FootConditionSettings
	search   eventSearch
	result   bool
}

var _ graph.BoolValueNode = &FootConditionNode{}

func (n *FootConditionNode) Initialize(ctx *graph.Context) {
	if n.BeginInitialize() {
		n.result = false
	}
}

func (n *FootConditionNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *FootConditionNode) ValueType() graph.ValueType { return graph.ValueTypeBool }

func (n *FootConditionNode) GetBool(ctx *graph.Context) bool {
	n.AssertInitialized()
	if !n.WasUpdated(ctx) {
		n.MarkNodeActive(ctx)
		n.result = false
		n.search.scan(ctx, func(e *graph.SampledEvent) bool {
			foot, ok := e.Event().(*model.FootEvent)
			if ok && n.settings.Condition.Matches(foot.Phase) {
				n.result = true
				return false
			}
			return true
		})
	}
	return n.result
}
