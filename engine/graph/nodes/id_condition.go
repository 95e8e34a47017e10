package nodes

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// IDConditionOperator selects how multiple target IDs combine.
type IDConditionOperator uint8

const (
	// IDConditionOr is satisfied by any one of the IDs.
	IDConditionOr IDConditionOperator = iota

	// IDConditionAnd requires every ID to be found.
	IDConditionAnd
)

func (o IDConditionOperator) String() string {
	if o == IDConditionAnd {
		return "And"
	}
	return "Or"
}

// ParseIDConditionOperator resolves "And" or "Or"; empty means Or.
func ParseIDConditionOperator(s string) (IDConditionOperator, error) {
	switch s {
	case "", "Or":
		return IDConditionOr, nil
	case "And":
		return IDConditionAnd, nil
	}
	return IDConditionOr, fmt.Errorf("unknown ID condition operator %q", s)
}

// IDConditionSettings checks whether events with the given IDs were sampled this frame.
type IDConditionSettings struct {
	graph.SettingsBase
	EventSearchSettings
	IDs      []string
	Operator IDConditionOperator
}

func (s *IDConditionSettings) Kind() graph.NodeKind { return graph.NodeKindIDCondition }

func (s *IDConditionSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *IDConditionNode { return &IDConditionNode{} })
	n.settings = s
	n.search.wire(ictx, &s.EventSearchSettings)
	n.found = make([]bool, len(s.IDs))
	return n
}

// IDConditionNode evaluates an IDConditionSettings once per update.
type IDConditionNode struct {
	graph.BaseNode
	settings *IDConditionSettings
	search   eventSearch
	found    []bool
	result   bool
}

var _ graph.BoolValueNode = &IDConditionNode{}

func (n *IDConditionNode) Initialize(ctx *graph.Context) {
	if n.BeginInitialize() {
		n.result = false
	}
}

func (n *IDConditionNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *IDConditionNode) ValueType() graph.ValueType { return graph.ValueTypeBool }

func (n *IDConditionNode) GetBool(ctx *graph.Context) bool {
	n.AssertInitialized()
	if !n.WasUpdated(ctx) {
		n.MarkNodeActive(ctx)
		n.result = n.evaluate(ctx)
	}
	return n.result
}

func (n *IDConditionNode) evaluate(ctx *graph.Context) bool {
	ids := n.settings.IDs
	if len(ids) == 0 {
		return false
	}

	if n.settings.Operator == IDConditionOr {
		matched := false
		n.search.scan(ctx, func(e *graph.SampledEvent) bool {
			id := e.ID()
			for _, target := range ids {
				if id == target {
					matched = true
					return false
				}
			}
			return true
		})
		return matched
	}

	clear(n.found)
	remaining := len(ids)
	n.search.scan(ctx, func(e *graph.SampledEvent) bool {
		id := e.ID()
		for i, target := range ids {
			if !n.found[i] && id == target {
				n.found[i] = true
				remaining--
			}
		}
		return remaining > 0
	})
	return remaining == 0
}
