package nodes

import (
	"math"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/sync_track"
)

// maxEventPercentageThrough keeps a duration event's progress inside [0, 1).
var maxEventPercentageThrough = math.Nextafter32(1, 0)

// ClipSettings plays one animation clip of the graph's model.
type ClipSettings struct {
	graph.SettingsBase

	// ClipIdx is the index of the clip in the definition's model.
	ClipIdx int

	// PlayRateNodeIdx optionally scales playback speed. graph.InvalidIndex plays at 1x.
	PlayRateNodeIdx int16

	// Loop wraps playback at the end of the clip instead of holding the last frame.
	Loop bool
}

func (s *ClipSettings) Kind() graph.NodeKind { return graph.NodeKindClip }

func (s *ClipSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *ClipNode { return &ClipNode{} })
	n.settings = s
	graph.SetOptionalNodePtrFromIndex(ictx, s.PlayRateNodeIdx, &n.playRate)
	n.clip = ictx.Clip(s.ClipIdx)
	if n.clip != nil {
		n.syncTrack = sync_track.NewFromMarkers(n.clip.SyncMarkers, n.clip.Duration)
	}
	if n.pose == nil || n.pose.Skeleton() != ictx.Skeleton() {
		n.pose = model.NewPose(ictx.Skeleton())
	}
	return n
}

// ClipNode samples a clip: it advances playback, emits the clip's events that playback
// crossed, samples the bone pose, and extracts root motion.
type ClipNode struct {
	graph.BasePoseNode
	settings  *ClipSettings
	clip      *model.AnimationClip
	syncTrack *sync_track.SyncTrack
	playRate  graph.FloatValueNode
	pose      *model.Pose
	result    graph.PoseNodeResult
	loopCount int32
}

var _ graph.PoseNode = &ClipNode{}

// Clip returns the clip the node plays.
func (n *ClipNode) Clip() *model.AnimationClip { return n.clip }

// LoopCount returns how many times playback has wrapped since initialization.
func (n *ClipNode) LoopCount() int32 { return n.loopCount }

func (n *ClipNode) SyncTrack() *sync_track.SyncTrack { return n.syncTrack }

func (n *ClipNode) Initialize(ctx *graph.Context) { n.InitializeAt(ctx, sync_track.Time{}) }

func (n *ClipNode) InitializeAt(ctx *graph.Context, initialTime sync_track.Time) {
	if !n.BeginInitialize() {
		return
	}
	if n.playRate != nil {
		n.playRate.Initialize(ctx)
	}
	n.ResetPoseState(ctx)
	n.SetDuration(n.clip.Duration)
	start := n.syncTrack.GetPercentageThrough(initialTime)
	n.SetTimes(start, start)
	n.loopCount = 0
	n.result = graph.PoseNodeResult{
		RootMotionDelta:   model.IdentityTransform,
		Pose:              n.pose,
		SampledEventRange: n.SampledEventRange(),
	}
}

func (n *ClipNode) Shutdown(ctx *graph.Context) {
	if !n.BeginShutdown() {
		return
	}
	if n.playRate != nil {
		n.playRate.Shutdown(ctx)
	}
}

func (n *ClipNode) Update(ctx *graph.Context) graph.PoseNodeResult {
	n.AssertInitialized()
	if n.WasUpdated(ctx) {
		return n.result
	}
	n.MarkNodeActive(ctx)

	rate := float32(1)
	if n.playRate != nil {
		rate = n.playRate.GetFloat(ctx)
	}
	var deltaPct float32
	if n.Duration() > 0 {
		deltaPct = max(ctx.DeltaTime()*rate/n.Duration(), 0)
	}
	return n.advance(ctx, n.CurrentTime(), deltaPct)
}

func (n *ClipNode) UpdateSynchronized(ctx *graph.Context, updateRange sync_track.TimeRange) graph.PoseNodeResult {
	n.AssertInitialized()
	if n.WasUpdated(ctx) {
		return n.result
	}
	n.MarkNodeActive(ctx)

	from := n.syncTrack.GetPercentageThrough(updateRange.Start)
	return n.advance(ctx, from, n.syncTrack.CalculatePercentageCovered(updateRange))
}

// advance moves playback from a normalized time by deltaPct and produces the update result.
func (n *ClipNode) advance(ctx *graph.Context, from, deltaPct float32) graph.PoseNodeResult {
	to := from + deltaPct
	looped := false
	if to >= 1 {
		if n.settings.Loop && deltaPct > 0 {
			to -= float32(math.Floor(float64(to)))
			looped = true
			n.loopCount++
		} else {
			to = 1
		}
	}

	buffer := ctx.SampledEvents()
	start := buffer.NumSampledEvents()
	duration := n.clip.Duration
	if looped {
		n.sampleEvents(ctx, from*duration, duration, true, to*duration)
		n.sampleEvents(ctx, 0, to*duration, false, -1)
	} else {
		n.sampleEvents(ctx, from*duration, to*duration, to >= 1 && from < 1, -1)
	}
	eventRange := graph.SampledEventRange{StartIdx: start, EndIdx: buffer.NumSampledEvents()}

	if n.pose != nil {
		n.clip.SamplePose(to*duration, n.pose)
	}

	n.SetTimes(from, to)
	n.SetSampledEventRange(eventRange)
	n.result = graph.PoseNodeResult{
		RootMotionDelta:   n.clip.RootMotionDelta(from, to, looped),
		Pose:              n.pose,
		SampledEventRange: eventRange,
	}
	return n.result
}

// sampleEvents emits every clip event overlapping [fromTime, toTime). Immediate events
// exactly at toTime are included when the interval closes at the end of the clip.
// A non-negative wrappedTo marks the first half of a looping update: duration events that
// also overlap [0, wrappedTo) are left to the second half so they are emitted once.
func (n *ClipNode) sampleEvents(ctx *graph.Context, fromTime, toTime float32, closedAtEnd bool, wrappedTo float32) {
	buffer := ctx.SampledEvents()
	active := ctx.IsActiveBranch()
	for _, e := range n.clip.Events {
		startTime := e.StartTime()
		if e.IsImmediate() {
			if startTime >= fromTime && (startTime < toTime || (closedAtEnd && startTime <= toTime)) {
				buffer.EmitAnimationEvent(n.NodeIndex(), e, 1, 0, active)
			}
			continue
		}

		if !overlapsInterval(e, fromTime, toTime) {
			continue
		}
		if wrappedTo >= 0 && overlapsInterval(e, 0, wrappedTo) {
			continue
		}
		pct := common.Clamp01((toTime - startTime) / e.Duration())
		buffer.EmitAnimationEvent(n.NodeIndex(), e, 1, min(pct, maxEventPercentageThrough), active)
	}
}

// overlapsInterval reports whether a duration event overlaps [fromTime, toTime). An empty
// interval overlaps the events that contain fromTime.
func overlapsInterval(e model.Event, fromTime, toTime float32) bool {
	if toTime > fromTime {
		return e.StartTime() < toTime && e.EndTime() > fromTime
	}
	return e.StartTime() <= fromTime && fromTime < e.EndTime()
}
