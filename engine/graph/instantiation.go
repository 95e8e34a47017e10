package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// InstantiationOption controls whether instantiation may reuse node objects of a previous instance.
type InstantiationOption int

const (
	// CreateNode always allocates fresh nodes.
	CreateNode InstantiationOption = iota

	// CreateNodeAndReuseExisting reuses the node object of a previous instance at the same
	// index when its type matches, which keeps allocations stable across hot reloads.
	CreateNodeAndReuseExisting
)

func (o InstantiationOption) String() string {
	if o == CreateNodeAndReuseExisting {
		return "CreateNodeAndReuseExisting"
	}
	return "CreateNode"
}

// InstantiationContext resolves a definition's flat settings array into live nodes.
// Nodes are built strictly in index order, so a node may only reference lower indices.
// The first wiring failure is recorded and aborts the whole instantiation.
type InstantiationContext struct {
	definition *Definition
	nodes      []Node
	existing   []Node
	current    int16
	err        error
}

func newInstantiationContext(def *Definition, existing []Node) *InstantiationContext {
	return &InstantiationContext{
		definition: def,
		nodes:      make([]Node, len(def.Settings)),
		existing:   existing,
		current:    InvalidIndex,
	}
}

// Definition returns the definition being instantiated.
func (ictx *InstantiationContext) Definition() *Definition { return ictx.definition }

// CurrentIndex returns the index of the settings record being instantiated.
func (ictx *InstantiationContext) CurrentIndex() int16 { return ictx.current }

// Err returns the first recorded failure, or nil.
func (ictx *InstantiationContext) Err() error { return ictx.err }

// Fail records a failure against the node being instantiated. Only the first failure is kept.
//
// Parameters:
//   - err: the sentinel or cause
//   - format: a message describing the failure
//   - args: the message arguments
func (ictx *InstantiationContext) Fail(err error, format string, args ...any) {
	if ictx.err != nil {
		return
	}
	var kind NodeKind
	if ictx.current >= 0 && int(ictx.current) < len(ictx.definition.Settings) {
		kind = ictx.definition.Settings[ictx.current].Kind()
	}
	ictx.err = &InstantiationError{
		NodeIndex: ictx.current,
		Kind:      kind,
		Msg:       fmt.Sprintf(format, args...),
		Err:       err,
	}
}

// Clip resolves a clip index against the definition's model. A missing clip fails instantiation.
//
// Parameters:
//   - idx: the clip index in the model
//
// Returns:
//   - *model.AnimationClip: the clip, or nil on failure
func (ictx *InstantiationContext) Clip(idx int) *model.AnimationClip {
	var clip *model.AnimationClip
	if ictx.definition.Model != nil {
		clip = ictx.definition.Model.Animation(idx)
	}
	if clip == nil {
		ictx.Fail(ErrMissingResource, "clip %d not found", idx)
	}
	return clip
}

// Skeleton returns the skeleton of the definition's model, or nil.
func (ictx *InstantiationContext) Skeleton() *model.Skeleton {
	if ictx.definition.Model == nil {
		return nil
	}
	return ictx.definition.Model.Skeleton()
}

// SetNodePtrFromIndex resolves a required child index into a node of type T.
// The index must refer to an already constructed node below the current one.
//
// Parameters:
//   - ictx: the instantiation context
//   - idx: the child index
//   - out: receives the resolved node
//
// Returns:
//   - bool: true on success; on failure the error is recorded on ictx
func SetNodePtrFromIndex[T Node](ictx *InstantiationContext, idx int16, out *T) bool {
	if idx == InvalidIndex {
		ictx.Fail(ErrInvalidNodeIndex, "required child index is unset")
		return false
	}
	return resolveNode(ictx, idx, out)
}

// SetOptionalNodePtrFromIndex resolves an optional child index. InvalidIndex leaves out at
// its zero value; any other index must resolve exactly like a required child.
//
// Parameters:
//   - ictx: the instantiation context
//   - idx: the child index or InvalidIndex
//   - out: receives the resolved node, or the zero value
//
// Returns:
//   - bool: true on success; on failure the error is recorded on ictx
func SetOptionalNodePtrFromIndex[T Node](ictx *InstantiationContext, idx int16, out *T) bool {
	if idx == InvalidIndex {
		var zero T
		*out = zero
		return true
	}
	return resolveNode(ictx, idx, out)
}

func resolveNode[T Node](ictx *InstantiationContext, idx int16, out *T) bool {
	if idx < 0 || int(idx) >= len(ictx.nodes) {
		ictx.Fail(ErrInvalidNodeIndex, "child index %d out of range [0, %d)", idx, len(ictx.nodes))
		return false
	}
	if idx >= ictx.current {
		ictx.Fail(ErrInvalidNodeIndex, "child index %d is not below node index %d", idx, ictx.current)
		return false
	}
	n := ictx.nodes[idx]
	if n == nil {
		ictx.Fail(ErrInvalidNodeIndex, "child %d was not constructed", idx)
		return false
	}
	typed, ok := n.(T)
	if !ok {
		ictx.Fail(ErrNodeTypeMismatch, "child %d is a %s node", idx, n.Settings().Kind())
		return false
	}
	*out = typed
	return true
}

// NewNode returns the node object for settings: the previous instance's node when reuse
// is allowed and its type matches, otherwise a fresh one from alloc. The node is bound to
// settings and reset to the uninitialized state.
//
// Parameters:
//   - ictx: the instantiation context
//   - option: the instantiation option
//   - settings: the settings the node is created from
//   - alloc: allocates a fresh node
//
// Returns:
//   - T: the node, ready to have its children wired
func NewNode[T Node](ictx *InstantiationContext, option InstantiationOption, settings Settings, alloc func() T) T {
	var node T
	reused := false
	if option == CreateNodeAndReuseExisting {
		idx := int(settings.NodeIndex())
		if idx >= 0 && idx < len(ictx.existing) && ictx.existing[idx] != nil {
			node, reused = ictx.existing[idx].(T)
		}
	}
	if !reused {
		node = alloc()
	}
	b := node.base()
	b.settings = settings
	b.lifecycle = LifecycleUninitialized
	b.initCount = 0
	b.lastUpdateID = 0
	return node
}
