package graph

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// BranchState tells nodes whether the subtree being evaluated currently drives the final pose.
type BranchState int

const (
	BranchStateActive BranchState = iota
	BranchStateInactive
)

func (b BranchState) String() string {
	if b == BranchStateInactive {
		return "Inactive"
	}
	return "Active"
}

// Context is the per-instance, per-update environment every node evaluates against.
// It is owned by one graph instance and is not safe for concurrent use.
type Context struct {
	deltaTime      float32
	worldTransform model.Transform
	sampledEvents  *SampledEventsBuffer
	branchState    BranchState
	layerDepth     int32
	updateID       uint64
	skeleton       *model.Skeleton

	graphName      string
	logger         *slog.Logger
	debugRecording bool
	activeNodes    []int16
}

// BeginUpdate starts a new frame: it advances the update counter, which invalidates every
// memoized node result, and resets the sampled event buffer.
//
// Parameters:
//   - deltaTime: the elapsed time in seconds
//   - worldTransform: the character's world transform at the start of the update
func (c *Context) BeginUpdate(deltaTime float32, worldTransform model.Transform) {
	c.updateID++
	c.deltaTime = deltaTime
	c.worldTransform = worldTransform
	c.sampledEvents.Reset()
	c.branchState = BranchStateActive
	c.layerDepth = 0
	c.activeNodes = c.activeNodes[:0]
}

// DeltaTime returns the elapsed time of the current update in seconds.
func (c *Context) DeltaTime() float32 { return c.deltaTime }

// WorldTransform returns the character's world transform at the start of the current update.
func (c *Context) WorldTransform() model.Transform { return c.worldTransform }

// SetWorldTransform overrides the world transform without starting a new update.
func (c *Context) SetWorldTransform(t model.Transform) { c.worldTransform = t }

// SampledEvents returns the instance's sampled event buffer.
func (c *Context) SampledEvents() *SampledEventsBuffer { return c.sampledEvents }

// BranchState returns whether the subtree being evaluated is active.
func (c *Context) BranchState() BranchState { return c.branchState }

// SetBranchState changes the branch state and returns the previous one so callers can restore it.
func (c *Context) SetBranchState(s BranchState) BranchState {
	prev := c.branchState
	c.branchState = s
	return prev
}

// IsActiveBranch reports whether the subtree being evaluated is active.
func (c *Context) IsActiveBranch() bool { return c.branchState == BranchStateActive }

// IsInLayer reports whether evaluation is currently inside a layer.
func (c *Context) IsInLayer() bool { return c.layerDepth > 0 }

// PushLayer marks the start of a layer evaluation.
func (c *Context) PushLayer() { c.layerDepth++ }

// PopLayer marks the end of a layer evaluation.
func (c *Context) PopLayer() {
	if c.layerDepth == 0 {
		panic("graph: PopLayer without matching PushLayer")
	}
	c.layerDepth--
}

// UpdateID returns the counter of the current update. It is zero before the first update.
func (c *Context) UpdateID() uint64 { return c.updateID }

// Skeleton returns the skeleton poses are sampled for. May be nil for root-motion-only graphs.
func (c *Context) Skeleton() *model.Skeleton { return c.skeleton }

// GraphName returns the name of the graph definition the context evaluates.
func (c *Context) GraphName() string { return c.graphName }

// Logger returns the structured logger of the context.
func (c *Context) Logger() *slog.Logger { return c.logger }

// LogWarning emits a warning attributed to a node.
//
// Parameters:
//   - nodeIdx: the index of the node reporting the warning
//   - msg: the warning message
//   - args: additional slog key/value pairs
func (c *Context) LogWarning(nodeIdx int16, msg string, args ...any) {
	c.logger.Warn(msg, append([]any{"graph", c.graphName, "node", nodeIdx}, args...)...)
}

// IsRecordingDebug reports whether active node recording is enabled.
func (c *Context) IsRecordingDebug() bool { return c.debugRecording }

// ActiveNodes returns the indices of nodes evaluated during the current update, in evaluation
// order. Always empty unless debug recording is enabled.
func (c *Context) ActiveNodes() []int16 {
	out := make([]int16, len(c.activeNodes))
	copy(out, c.activeNodes)
	return out
}

func (c *Context) recordActiveNode(idx int16) {
	if c.debugRecording {
		c.activeNodes = append(c.activeNodes, idx)
	}
}
