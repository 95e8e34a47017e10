package nodes

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// PercentageThroughNotFound is the value reported when no matching event was sampled.
const PercentageThroughNotFound float32 = -1

// PriorityRule picks between several matching events sampled in the same frame.
type PriorityRule uint8

const (
	PriorityHighestWeight PriorityRule = iota
	PriorityHighestPercentageThrough
)

func (p PriorityRule) String() string {
	if p == PriorityHighestPercentageThrough {
		return "HighestPercentageThrough"
	}
	return "HighestWeight"
}

// ParsePriorityRule resolves a rule name; empty means HighestWeight.
func ParsePriorityRule(s string) (PriorityRule, error) {
	switch s {
	case "", "HighestWeight":
		return PriorityHighestWeight, nil
	case "HighestPercentageThrough":
		return PriorityHighestPercentageThrough, nil
	}
	return PriorityHighestWeight, fmt.Errorf("unknown priority rule %q", s)
}

// PercentageThroughSettings reports how far through an ID event playback currently is.
type PercentageThroughSettings struct {
	graph.SettingsBase
	EventSearchSettings
	ID           string
	PriorityRule PriorityRule
}

func (s *PercentageThroughSettings) Kind() graph.NodeKind { return graph.NodeKindPercentageThrough }

func (s *PercentageThroughSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *PercentageThroughNode { return &PercentageThroughNode{} })
	n.settings = s
	n.search.wire(ictx, &s.EventSearchSettings)
	return n
}

// PercentageThroughNode evaluates a PercentageThroughSettings once per update.
type PercentageThroughNode struct {
	graph.BaseNode
	settings *PercentageThroughSettings
	search   eventSearch
	result   float32
}

var _ graph.FloatValueNode = &PercentageThroughNode{}

func (n *PercentageThroughNode) Initialize(ctx *graph.Context) {
	if n.BeginInitialize() {
		n.result = PercentageThroughNotFound
	}
}

func (n *PercentageThroughNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *PercentageThroughNode) ValueType() graph.ValueType { return graph.ValueTypeFloat }

func (n *PercentageThroughNode) GetFloat(ctx *graph.Context) float32 {
	n.AssertInitialized()
	if !n.WasUpdated(ctx) {
		n.MarkNodeActive(ctx)
		n.result = n.evaluate(ctx)
	}
	return n.result
}

func (n *PercentageThroughNode) evaluate(ctx *graph.Context) float32 {
	result := PercentageThroughNotFound
	bestWeight := float32(-1)
	n.search.scan(ctx, func(e *graph.SampledEvent) bool {
		if !e.IsAnimationEvent() || e.ID() != n.settings.ID {
			return true
		}
		// Later matches win ties.
		switch n.settings.PriorityRule {
		case PriorityHighestWeight:
			if e.Weight() >= bestWeight {
				bestWeight = e.Weight()
				result = e.PercentageThrough()
			}
		case PriorityHighestPercentageThrough:
			if e.PercentageThrough() >= result {
				result = e.PercentageThrough()
			}
		}
		return true
	})
	return result
}
