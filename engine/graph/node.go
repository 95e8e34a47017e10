// Package graph implements the per-frame evaluation protocol of an animation graph:
// compiled settings shared by every instance, per-instance node state wired by index,
// the per-update context, and the sampled event buffer nodes communicate through.
package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/sync_track"
)

// InvalidIndex is the sentinel for an absent optional child.
const InvalidIndex int16 = -1

// Lifecycle is the initialization state of a node instance.
type Lifecycle int

const (
	LifecycleUninitialized Lifecycle = iota
	LifecycleInitialized
	LifecycleShutdown
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleUninitialized:
		return "Uninitialized"
	case LifecycleInitialized:
		return "Initialized"
	case LifecycleShutdown:
		return "Shutdown"
	default:
		return fmt.Sprintf("Lifecycle(%d)", int(l))
	}
}

// Node is the runtime instance created from a Settings record for one graph instance.
//
// Nodes may be shared by several parents, so initialization is reference counted:
// Initialize runs the node's own setup on the first call and Shutdown tears it down on the
// matching last call. Concrete nodes embed BaseNode and call BeginInitialize/BeginShutdown
// from their Initialize/Shutdown.
type Node interface {
	// Settings returns the shared, immutable settings this node was created from.
	Settings() Settings

	// NodeIndex returns the node's index in the graph.
	NodeIndex() int16

	// Lifecycle returns the node's current initialization state.
	Lifecycle() Lifecycle

	// IsInitialized reports whether the node is between Initialize and its final Shutdown.
	IsInitialized() bool

	// WasUpdated reports whether the node already produced its result during the context's
	// current update.
	//
	// Parameters:
	//   - ctx: the graph context of the current update
	//
	// Returns:
	//   - bool: true if the node was evaluated during this update
	WasUpdated(ctx *Context) bool

	// Initialize prepares the node and its children for evaluation.
	//
	// Parameters:
	//   - ctx: the graph context
	Initialize(ctx *Context)

	// Shutdown releases the node's reference to its children, in reverse order of Initialize.
	//
	// Parameters:
	//   - ctx: the graph context
	Shutdown(ctx *Context)

	base() *BaseNode
}

// BaseNode carries the state every node shares. Embed it in concrete node types.
type BaseNode struct {
	settings     Settings
	lifecycle    Lifecycle
	initCount    int32
	lastUpdateID uint64
}

func (n *BaseNode) base() *BaseNode { return n }

func (n *BaseNode) Settings() Settings { return n.settings }

func (n *BaseNode) NodeIndex() int16 { return n.settings.NodeIndex() }

func (n *BaseNode) Lifecycle() Lifecycle { return n.lifecycle }

func (n *BaseNode) IsInitialized() bool { return n.lifecycle == LifecycleInitialized }

func (n *BaseNode) WasUpdated(ctx *Context) bool {
	return ctx.updateID != 0 && n.lastUpdateID == ctx.updateID
}

// LastUpdateID returns the context update counter value at which the node last ran.
func (n *BaseNode) LastUpdateID() uint64 { return n.lastUpdateID }

// BeginInitialize increments the initialization count and reports whether this is the first
// reference, in which case the caller must run its own initialization.
func (n *BaseNode) BeginInitialize() bool {
	n.initCount++
	if n.initCount > 1 {
		return false
	}
	n.lifecycle = LifecycleInitialized
	n.lastUpdateID = 0
	return true
}

// BeginShutdown decrements the initialization count and reports whether this was the last
// reference, in which case the caller must run its own shutdown and then release its children.
func (n *BaseNode) BeginShutdown() bool {
	if n.initCount <= 0 {
		panic(fmt.Sprintf("graph: node %d shut down more times than it was initialized", n.NodeIndex()))
	}
	n.initCount--
	if n.initCount > 0 {
		return false
	}
	n.lifecycle = LifecycleShutdown
	return true
}

// MarkNodeActive records that the node ran during the context's current update.
// With debug recording enabled the context also lists the node as active.
func (n *BaseNode) MarkNodeActive(ctx *Context) {
	n.lastUpdateID = ctx.updateID
	ctx.recordActiveNode(n.NodeIndex())
}

// AssertInitialized panics when the node is evaluated outside Initialize/Shutdown.
// Evaluating an uninitialized node is a graph construction bug, not a data condition.
func (n *BaseNode) AssertInitialized() {
	if n.lifecycle != LifecycleInitialized {
		panic(fmt.Sprintf("graph: node %d (%s) evaluated while %s", n.NodeIndex(), n.settings.Kind(), n.lifecycle))
	}
}

// --- Value nodes ---

// ValueType identifies the result type of a value node.
type ValueType int

const (
	ValueTypeBool ValueType = iota
	ValueTypeFloat
	ValueTypeVector
)

// ValueNode is a node producing a memoized per-update value.
type ValueNode interface {
	Node
	ValueType() ValueType
}

// BoolValueNode produces a boolean.
type BoolValueNode interface {
	ValueNode
	GetBool(ctx *Context) bool
}

// FloatValueNode produces a float.
type FloatValueNode interface {
	ValueNode
	GetFloat(ctx *Context) float32
}

// VectorValueNode produces a 3D vector.
type VectorValueNode interface {
	ValueNode
	GetVector(ctx *Context) [3]float32
}

// --- Pose nodes ---

// PoseNodeResult is the output of a pose node update.
type PoseNodeResult struct {
	// RootMotionDelta is the root motion produced by this update, in character space.
	RootMotionDelta model.Transform

	// Pose is the sampled local pose. Owned by the producing node and valid until its next update.
	Pose *model.Pose

	// SampledEventRange is the slice of the sampled event buffer produced by the node's subtree.
	SampledEventRange SampledEventRange
}

// PoseNode is a node producing a pose and root motion delta each update.
type PoseNode interface {
	Node

	// InitializeAt initializes the node with playback starting at a sync time.
	//
	// Parameters:
	//   - ctx: the graph context
	//   - initialTime: the sync track time to start playback at
	InitializeAt(ctx *Context, initialTime sync_track.Time)

	// Update advances the node by the context's delta time.
	//
	// Parameters:
	//   - ctx: the graph context
	//
	// Returns:
	//   - PoseNodeResult: the root motion, pose, and event range of this update
	Update(ctx *Context) PoseNodeResult

	// UpdateSynchronized advances the node across a sync track range instead of by delta time.
	//
	// Parameters:
	//   - ctx: the graph context
	//   - updateRange: the sync time range to cover
	//
	// Returns:
	//   - PoseNodeResult: the root motion, pose, and event range of this update
	UpdateSynchronized(ctx *Context, updateRange sync_track.TimeRange) PoseNodeResult

	// SyncTrack returns the node's current sync track.
	SyncTrack() *sync_track.SyncTrack

	// Duration returns the node's playback length in seconds.
	Duration() float32

	// CurrentTime returns the normalized playback time after the last update.
	CurrentTime() float32

	// PreviousTime returns the normalized playback time before the last update.
	PreviousTime() float32

	// SampledEventRange returns the events produced by the node's subtree during its last
	// update. Only meaningful once the node has been updated this frame.
	SampledEventRange() SampledEventRange
}

// BasePoseNode extends BaseNode with playback state common to every pose node.
type BasePoseNode struct {
	BaseNode
	duration     float32
	currentTime  float32
	previousTime float32
	eventRange   SampledEventRange
}

func (n *BasePoseNode) Duration() float32 { return n.duration }

func (n *BasePoseNode) CurrentTime() float32 { return n.currentTime }

func (n *BasePoseNode) PreviousTime() float32 { return n.previousTime }

func (n *BasePoseNode) SampledEventRange() SampledEventRange { return n.eventRange }

// SetDuration sets the playback length in seconds.
func (n *BasePoseNode) SetDuration(d float32) { n.duration = d }

// SetTimes records the normalized playback times before and after an update.
func (n *BasePoseNode) SetTimes(previous, current float32) {
	n.previousTime = previous
	n.currentTime = current
}

// SetSampledEventRange records the subtree's event range for the current update.
func (n *BasePoseNode) SetSampledEventRange(r SampledEventRange) { n.eventRange = r }

// ResetPoseState clears playback state; call it from InitializeAt.
func (n *BasePoseNode) ResetPoseState(ctx *Context) {
	n.currentTime, n.previousTime = 0, 0
	n.eventRange = EmptySampledEventRange(ctx.sampledEvents.NumSampledEvents())
}
