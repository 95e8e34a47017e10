// Package nodes provides the concrete node types of the animation graph runtime:
// control parameters, event conditions, and the clip, state, and orientation warp pose nodes.
package nodes

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
)

// --- Bool ---

// BoolParameterSettings declares a bool control parameter set by gameplay.
type BoolParameterSettings struct {
	graph.SettingsBase
	Name    string
	Default bool
}

func (s *BoolParameterSettings) Kind() graph.NodeKind { return graph.NodeKindBoolParameter }

func (s *BoolParameterSettings) ParameterName() string { return s.Name }

func (s *BoolParameterSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *BoolParameterNode { return &BoolParameterNode{} })
	n.value = s.Default
	return n
}

// BoolParameterNode holds the current value of a bool control parameter.
type BoolParameterNode struct {
	graph.BaseNode
	value bool
}

var _ graph.BoolValueNode = &BoolParameterNode{}
var _ graph.BoolParameter = &BoolParameterNode{}

func (n *BoolParameterNode) Initialize(ctx *graph.Context) { n.BeginInitialize() }

func (n *BoolParameterNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *BoolParameterNode) ValueType() graph.ValueType { return graph.ValueTypeBool }

func (n *BoolParameterNode) GetBool(ctx *graph.Context) bool {
	n.AssertInitialized()
	n.MarkNodeActive(ctx)
	return n.value
}

func (n *BoolParameterNode) SetBool(v bool) { n.value = v }

// --- Float ---

// FloatParameterSettings declares a float control parameter set by gameplay.
type FloatParameterSettings struct {
	graph.SettingsBase
	Name    string
	Default float32
}

func (s *FloatParameterSettings) Kind() graph.NodeKind { return graph.NodeKindFloatParameter }

func (s *FloatParameterSettings) ParameterName() string { return s.Name }

func (s *FloatParameterSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *FloatParameterNode { return &FloatParameterNode{} })
	n.value = s.Default
	return n
}

// FloatParameterNode holds the current value of a float control parameter.
type FloatParameterNode struct {
	graph.BaseNode
	value float32
}

var _ graph.FloatValueNode = &FloatParameterNode{}
var _ graph.FloatParameter = &FloatParameterNode{}

func (n *FloatParameterNode) Initialize(ctx *graph.Context) { n.BeginInitialize() }

func (n *FloatParameterNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *FloatParameterNode) ValueType() graph.ValueType { return graph.ValueTypeFloat }

func (n *FloatParameterNode) GetFloat(ctx *graph.Context) float32 {
	n.AssertInitialized()
	n.MarkNodeActive(ctx)
	return n.value
}

func (n *FloatParameterNode) SetFloat(v float32) { n.value = v }

// --- Vector ---

// VectorParameterSettings declares a vector control parameter set by gameplay.
type VectorParameterSettings struct {
	graph.SettingsBase
	Name    string
	Default [3]float32
}

func (s *VectorParameterSettings) Kind() graph.NodeKind { return graph.NodeKindVectorParameter }

func (s *VectorParameterSettings) ParameterName() string { return s.Name }

func (s *VectorParameterSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *VectorParameterNode { return &VectorParameterNode{} })
	n.value = s.Default
	return n
}

// VectorParameterNode holds the current value of a vector control parameter.
type VectorParameterNode struct {
	graph.BaseNode
	value [3]float32
}

var _ graph.VectorValueNode = &VectorParameterNode{}
var _ graph.VectorParameter = &VectorParameterNode{}

func (n *VectorParameterNode) Initialize(ctx *graph.Context) { n.BeginInitialize() }

func (n *VectorParameterNode) Shutdown(ctx *graph.Context) { n.BeginShutdown() }

func (n *VectorParameterNode) ValueType() graph.ValueType { return graph.ValueTypeVector }

func (n *VectorParameterNode) GetVector(ctx *graph.Context) [3]float32 {
	n.AssertInitialized()
	n.MarkNodeActive(ctx)
	return n.value
}

func (n *VectorParameterNode) SetVector(v [3]float32) { n.value = v }
