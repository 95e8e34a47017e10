package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/sync_track"
)

// GraphInstance is one live evaluation of a Definition: its own nodes, context, and sampled
// event buffer. Instances share nothing mutable, so different instances may be updated on
// different goroutines; a single instance must not be.
type GraphInstance struct {
	definition *Definition
	nodes      []Node
	root       PoseNode
	ctx        *Context
	detached   []Node
	lastResult PoseNodeResult
	destroyed  bool
}

// InstantiateGraph builds a live graph from a definition. Nodes are constructed in index
// order and the root is initialized; any structural failure aborts construction.
// Value nodes outside the root's subtree are initialized too so that gameplay can query them.
//
// Parameters:
//   - def: the compiled graph definition
//   - options: a variadic list of InstanceBuilderOption functions
//
// Returns:
//   - *GraphInstance: the initialized instance
//   - error: an error wrapping ErrInvalidDefinition, or an *InstantiationError
func InstantiateGraph(def *Definition, options ...InstanceBuilderOption) (*GraphInstance, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	cfg := &instanceConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	option := CreateNode
	var existing []Node
	if cfg.reuse != nil {
		if !cfg.reuse.destroyed {
			cfg.reuse.Destroy()
		}
		existing = cfg.reuse.nodes
		option = CreateNodeAndReuseExisting
	}

	ictx := newInstantiationContext(def, existing)
	for i, s := range def.Settings {
		ictx.current = int16(i)
		n := s.InstantiateNode(ictx, option)
		if err := ictx.Err(); err != nil {
			return nil, err
		}
		if n == nil {
			ictx.Fail(ErrInvalidDefinition, "settings produced no node")
			return nil, ictx.Err()
		}
		ictx.nodes[i] = n
	}

	root, ok := ictx.nodes[def.RootNodeIdx].(PoseNode)
	if !ok {
		ictx.current = def.RootNodeIdx
		ictx.Fail(ErrNodeTypeMismatch, "root is not a pose node")
		return nil, ictx.Err()
	}

	ctxOptions := append([]ContextBuilderOption{
		WithGraphName(def.Name),
		WithSkeleton(ictx.Skeleton()),
	}, cfg.contextOptions...)

	g := &GraphInstance{
		definition: def,
		nodes:      ictx.nodes,
		root:       root,
		ctx:        NewContext(ctxOptions...),
	}
	g.lastResult = PoseNodeResult{
		RootMotionDelta:   model.IdentityTransform,
		SampledEventRange: EmptySampledEventRange(0),
	}
	root.InitializeAt(g.ctx, sync_track.Time{})
	for _, n := range g.nodes {
		if !n.IsInitialized() && !n.Settings().Kind().IsPoseKind() {
			n.Initialize(g.ctx)
			g.detached = append(g.detached, n)
		}
	}
	return g, nil
}

// Update evaluates the graph for one frame. It never fails for an instantiated graph:
// recoverable conditions are handled by the nodes themselves.
//
// Parameters:
//   - deltaTime: the elapsed time in seconds
//   - worldTransform: the character's world transform at the start of the frame
//
// Returns:
//   - PoseNodeResult: the root pose node's result for this frame
func (g *GraphInstance) Update(deltaTime float32, worldTransform model.Transform) PoseNodeResult {
	if g.destroyed {
		panic(fmt.Sprintf("graph: Update on destroyed instance of %q", g.definition.Name))
	}
	g.ctx.BeginUpdate(deltaTime, worldTransform)
	g.lastResult = g.root.Update(g.ctx)
	return g.lastResult
}

// Destroy shuts the graph down. The instance must not be updated afterwards.
func (g *GraphInstance) Destroy() {
	if g.destroyed {
		return
	}
	for i := len(g.detached) - 1; i >= 0; i-- {
		g.detached[i].Shutdown(g.ctx)
	}
	g.detached = nil
	if g.root.IsInitialized() {
		g.root.Shutdown(g.ctx)
	}
	for _, n := range g.nodes {
		if n.IsInitialized() {
			g.ctx.LogWarning(n.NodeIndex(), "node still initialized after graph shutdown", "kind", n.Settings().Kind())
		}
	}
	g.destroyed = true
}

// IsDestroyed reports whether Destroy has been called.
func (g *GraphInstance) IsDestroyed() bool { return g.destroyed }

// Definition returns the definition the instance was built from.
func (g *GraphInstance) Definition() *Definition { return g.definition }

// Context returns the instance's graph context.
func (g *GraphInstance) Context() *Context { return g.ctx }

// Root returns the root pose node.
func (g *GraphInstance) Root() PoseNode { return g.root }

// NumNodes returns the number of nodes in the instance.
func (g *GraphInstance) NumNodes() int { return len(g.nodes) }

// Node returns the node at idx, or nil if idx is out of range.
func (g *GraphInstance) Node(idx int16) Node {
	if idx < 0 || int(idx) >= len(g.nodes) {
		return nil
	}
	return g.nodes[idx]
}

// LastResult returns the result of the most recent Update.
func (g *GraphInstance) LastResult() PoseNodeResult { return g.lastResult }

// SampledEvents returns a copy of the events sampled during the most recent Update.
func (g *GraphInstance) SampledEvents() []SampledEvent { return g.ctx.sampledEvents.Events() }

// NumSampledEvents returns the number of events sampled during the most recent Update.
func (g *GraphInstance) NumSampledEvents() int32 { return g.ctx.sampledEvents.NumSampledEvents() }

// SampledEvent returns the event at idx from the most recent Update.
func (g *GraphInstance) SampledEvent(idx int32) SampledEvent { return g.ctx.sampledEvents.At(idx) }

// IsNodeActive reports whether the node at idx was evaluated during the most recent Update.
func (g *GraphInstance) IsNodeActive(idx int16) bool {
	n := g.Node(idx)
	return n != nil && n.WasUpdated(g.ctx)
}

// SetBoolParameter sets a bool control parameter by name.
//
// Parameters:
//   - name: the parameter name
//   - v: the new value
//
// Returns:
//   - error: ErrUnknownParameter or ErrParameterTypeMismatch on failure
func (g *GraphInstance) SetBoolParameter(name string, v bool) error {
	p, err := parameterAs[BoolParameter](g, name)
	if err != nil {
		return err
	}
	p.SetBool(v)
	return nil
}

// SetFloatParameter sets a float control parameter by name.
//
// Parameters:
//   - name: the parameter name
//   - v: the new value
//
// Returns:
//   - error: ErrUnknownParameter or ErrParameterTypeMismatch on failure
func (g *GraphInstance) SetFloatParameter(name string, v float32) error {
	p, err := parameterAs[FloatParameter](g, name)
	if err != nil {
		return err
	}
	p.SetFloat(v)
	return nil
}

// SetVectorParameter sets a vector control parameter by name.
//
// Parameters:
//   - name: the parameter name
//   - v: the new value
//
// Returns:
//   - error: ErrUnknownParameter or ErrParameterTypeMismatch on failure
func (g *GraphInstance) SetVectorParameter(name string, v [3]float32) error {
	p, err := parameterAs[VectorParameter](g, name)
	if err != nil {
		return err
	}
	p.SetVector(v)
	return nil
}

func parameterAs[T any](g *GraphInstance, name string) (T, error) {
	var zero T
	idx, ok := g.definition.ParameterIndex(name)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	p, ok := g.nodes[idx].(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is a %s node", ErrParameterTypeMismatch, name, g.nodes[idx].Settings().Kind())
	}
	return p, nil
}
