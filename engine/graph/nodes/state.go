package nodes

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/sync_track"
)

// StateTimedEvent is a state event raised once when the time spent in the state crosses Time.
type StateTimedEvent struct {
	ID   string
	Time float32
}

// StateSettings wraps a child pose node and raises state events around its playback.
type StateSettings struct {
	graph.SettingsBase
	ChildNodeIdx int16

	// EntryEvents are raised on the first update after the state is initialized.
	EntryEvents []string

	// ExecuteEvents are raised on every later update until the state starts transitioning out.
	ExecuteEvents []string

	// ExitEvents are raised on every update while the state transitions out.
	ExitEvents []string

	TimedEvents []StateTimedEvent
}

func (s *StateSettings) Kind() graph.NodeKind { return graph.NodeKindState }

func (s *StateSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *StateNode { return &StateNode{} })
	n.settings = s
	graph.SetNodePtrFromIndex(ictx, s.ChildNodeIdx, &n.child)
	return n
}

// StateNode is a pose node that forwards its child's result and brackets it with state events.
// Condition nodes use a state as their event source to search only the state's events.
type StateNode struct {
	graph.BasePoseNode
	settings         *StateSettings
	child            graph.PoseNode
	result           graph.PoseNodeResult
	elapsedTime      float32
	firstUpdate      bool
	transitioningOut bool
}

var _ graph.PoseNode = &StateNode{}

func (n *StateNode) SyncTrack() *sync_track.SyncTrack { return n.child.SyncTrack() }

// Child returns the wrapped pose node.
func (n *StateNode) Child() graph.PoseNode { return n.child }

// ElapsedTime returns the time in seconds spent in the state since initialization.
func (n *StateNode) ElapsedTime() float32 { return n.elapsedTime }

// IsTransitioningOut reports whether StartTransitionOut was called since initialization.
func (n *StateNode) IsTransitioningOut() bool { return n.transitioningOut }

// StartTransitionOut marks the state as leaving. Its later events are raised as exit events
// and flagged as not coming from the active branch.
func (n *StateNode) StartTransitionOut() { n.transitioningOut = true }

// CurrentSyncTime returns the child's playback position on its sync track.
// Reading it from an uninitialized state is a graph construction bug and panics.
func (n *StateNode) CurrentSyncTime() sync_track.Time {
	n.AssertInitialized()
	return n.child.SyncTrack().GetTime(n.child.CurrentTime())
}

func (n *StateNode) Initialize(ctx *graph.Context) { n.InitializeAt(ctx, sync_track.Time{}) }

func (n *StateNode) InitializeAt(ctx *graph.Context, initialTime sync_track.Time) {
	if !n.BeginInitialize() {
		return
	}
	n.child.InitializeAt(ctx, initialTime)
	n.ResetPoseState(ctx)
	n.SetDuration(n.child.Duration())
	n.SetTimes(n.child.PreviousTime(), n.child.CurrentTime())
	n.elapsedTime = 0
	n.firstUpdate = true
	n.transitioningOut = false
}

func (n *StateNode) Shutdown(ctx *graph.Context) {
	if !n.BeginShutdown() {
		return
	}
	n.child.Shutdown(ctx)
}

func (n *StateNode) Update(ctx *graph.Context) graph.PoseNodeResult {
	return n.update(ctx, func() graph.PoseNodeResult { return n.child.Update(ctx) })
}

func (n *StateNode) UpdateSynchronized(ctx *graph.Context, updateRange sync_track.TimeRange) graph.PoseNodeResult {
	return n.update(ctx, func() graph.PoseNodeResult { return n.child.UpdateSynchronized(ctx, updateRange) })
}

func (n *StateNode) update(ctx *graph.Context, updateChild func() graph.PoseNodeResult) graph.PoseNodeResult {
	n.AssertInitialized()
	if n.WasUpdated(ctx) {
		return n.result
	}
	n.MarkNodeActive(ctx)

	buffer := ctx.SampledEvents()
	start := buffer.NumSampledEvents()
	n.emitStateEvents(ctx)

	prevBranch := ctx.BranchState()
	if n.transitioningOut {
		ctx.SetBranchState(graph.BranchStateInactive)
	}
	childResult := updateChild()
	ctx.SetBranchState(prevBranch)

	n.SetDuration(n.child.Duration())
	n.SetTimes(n.child.PreviousTime(), n.child.CurrentTime())
	eventRange := graph.SampledEventRange{StartIdx: start, EndIdx: buffer.NumSampledEvents()}
	n.SetSampledEventRange(eventRange)
	n.result = graph.PoseNodeResult{
		RootMotionDelta:   childResult.RootMotionDelta,
		Pose:              childResult.Pose,
		SampledEventRange: eventRange,
	}
	return n.result
}

func (n *StateNode) emitStateEvents(ctx *graph.Context) {
	buffer := ctx.SampledEvents()
	active := ctx.IsActiveBranch() && !n.transitioningOut
	idx := n.NodeIndex()

	switch {
	case n.transitioningOut:
		for _, id := range n.settings.ExitEvents {
			buffer.EmitStateEvent(idx, id, graph.StateEventExit, active)
		}
	case n.firstUpdate:
		for _, id := range n.settings.EntryEvents {
			buffer.EmitStateEvent(idx, id, graph.StateEventEntry, active)
		}
	default:
		for _, id := range n.settings.ExecuteEvents {
			buffer.EmitStateEvent(idx, id, graph.StateEventFullyInState, active)
		}
	}
	n.firstUpdate = false

	prevElapsed := n.elapsedTime
	n.elapsedTime += ctx.DeltaTime()
	for _, te := range n.settings.TimedEvents {
		if te.Time >= prevElapsed && te.Time < n.elapsedTime {
			buffer.EmitStateEvent(idx, te.ID, graph.StateEventTimed, active)
		}
	}
}
