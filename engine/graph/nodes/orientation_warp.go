package nodes

import (
	"github.com/tanema/gween/ease"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/graph"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/sync_track"
)

// MinWarpDuration is the shortest warp window, in seconds, that is worth warping.
// Shorter windows would spread the rotation over too few samples to stay stable.
const MinWarpDuration float32 = 1.0 / 30.0

// OrientationWarpSettings rotates the remaining root motion of a clip so that the character
// leaves the clip's warp event facing a runtime target direction.
type OrientationWarpSettings struct {
	graph.SettingsBase

	// ClipReferenceNodeIdx is the clip node whose root motion is warped.
	ClipReferenceNodeIdx int16

	// AngleOffsetValueNodeIdx supplies an offset in degrees around +Y. Used when IsOffsetNode is set.
	AngleOffsetValueNodeIdx int16

	// TargetValueNodeIdx supplies an absolute world-space direction. Used when IsOffsetNode is unset.
	TargetValueNodeIdx int16

	// IsOffsetNode selects an angular offset instead of an absolute target direction.
	IsOffsetNode bool

	// IsOffsetRelativeToCharacter applies the offset to the character's facing at activation
	// instead of the clip's own post-warp direction.
	IsOffsetRelativeToCharacter bool

	SamplingMode model.RootMotionSamplingMode

	// Easing shapes how the rotation is spread across the warp window. Nil is linear.
	Easing ease.TweenFunc
}

// spread returns the fraction of the desired rotation applied t of the way through the window.
func (s *OrientationWarpSettings) spread(t float32) float32 {
	if s.Easing == nil {
		return t
	}
	return common.Clamp01(s.Easing(t, 0, 1, 1))
}

func (s *OrientationWarpSettings) Kind() graph.NodeKind { return graph.NodeKindOrientationWarp }

func (s *OrientationWarpSettings) InstantiateNode(ictx *graph.InstantiationContext, option graph.InstantiationOption) graph.Node {
	n := graph.NewNode(ictx, option, s, func() *OrientationWarpNode { return &OrientationWarpNode{} })
	n.settings = s
	n.angleOffset, n.target = nil, nil
	graph.SetNodePtrFromIndex(ictx, s.ClipReferenceNodeIdx, &n.clipNode)
	if s.IsOffsetNode {
		graph.SetNodePtrFromIndex(ictx, s.AngleOffsetValueNodeIdx, &n.angleOffset)
	} else {
		graph.SetNodePtrFromIndex(ictx, s.TargetValueNodeIdx, &n.target)
	}
	return n
}

// OrientationWarpNode plays its clip node and replaces the clip's root motion with a warped
// copy computed once per activation.
type OrientationWarpNode struct {
	graph.BasePoseNode
	settings    *OrientationWarpSettings
	clipNode    *ClipNode
	angleOffset graph.FloatValueNode
	target      graph.VectorValueNode
	result      graph.PoseNodeResult

	warpPending     bool
	warpActive      bool
	warped          *model.RootMotionData
	warpStartFrame  int32
	warpEndFrame    int32
	desiredDelta    [4]float32
	targetDirection [3]float32
	postWarpDir     [3]float32
	worldAnchor     model.Transform
	clipAnchor      model.Transform
}

var _ graph.PoseNode = &OrientationWarpNode{}

func (n *OrientationWarpNode) SyncTrack() *sync_track.SyncTrack { return n.clipNode.SyncTrack() }

// IsWarpActive reports whether the current activation produced a warped root motion track.
// The track is built on the first update after initialization, so this is false until then.
func (n *OrientationWarpNode) IsWarpActive() bool { return n.warpActive }

// IsWarpPending reports whether the node is initialized but has not built its track yet.
func (n *OrientationWarpNode) IsWarpPending() bool { return n.warpPending }

// WarpedRootMotion returns the warped track of the current activation, or nil.
func (n *OrientationWarpNode) WarpedRootMotion() *model.RootMotionData { return n.warped }

// WarpFrames returns the first and last frame of the warp window.
func (n *OrientationWarpNode) WarpFrames() (start, end int32) {
	return n.warpStartFrame, n.warpEndFrame
}

// DesiredOrientationDelta returns the rotation taking the clip's post-warp direction onto the target.
func (n *OrientationWarpNode) DesiredOrientationDelta() [4]float32 { return n.desiredDelta }

// TargetDirection returns the clip-space direction the warp aims for.
func (n *OrientationWarpNode) TargetDirection() [3]float32 { return n.targetDirection }

// PostWarpDirection returns the clip's original horizontal travel direction after the warp window.
func (n *OrientationWarpNode) PostWarpDirection() [3]float32 { return n.postWarpDir }

func (n *OrientationWarpNode) Initialize(ctx *graph.Context) { n.InitializeAt(ctx, sync_track.Time{}) }

func (n *OrientationWarpNode) InitializeAt(ctx *graph.Context, initialTime sync_track.Time) {
	if !n.BeginInitialize() {
		return
	}
	n.clipNode.InitializeAt(ctx, initialTime)
	if n.angleOffset != nil {
		n.angleOffset.Initialize(ctx)
	}
	if n.target != nil {
		n.target.Initialize(ctx)
	}
	n.ResetPoseState(ctx)
	n.SetDuration(n.clipNode.Duration())
	n.SetTimes(n.clipNode.PreviousTime(), n.clipNode.CurrentTime())
	n.result = graph.PoseNodeResult{RootMotionDelta: model.IdentityTransform, SampledEventRange: n.SampledEventRange()}

	// Parameters and the character's world transform are only known once a frame runs.
	n.warpPending = true
	n.warpActive = false
	n.warped = nil
}

// activate builds the warp from the current frame's inputs, with playback at activationPct.
func (n *OrientationWarpNode) activate(ctx *graph.Context, activationPct float32) {
	n.warpPending = false
	outcome := n.performWarp(ctx, activationPct)
	n.warpActive = outcome == warpOutcomeApplied
	warpActivations.WithLabelValues(outcome).Inc()
}

func (n *OrientationWarpNode) Shutdown(ctx *graph.Context) {
	if !n.BeginShutdown() {
		return
	}
	if n.target != nil {
		n.target.Shutdown(ctx)
	}
	if n.angleOffset != nil {
		n.angleOffset.Shutdown(ctx)
	}
	n.clipNode.Shutdown(ctx)
	n.warpPending = false
	n.warpActive = false
	n.warped = nil
}

// performWarp builds the warped root motion track for this activation. Every failure leaves
// the warp inactive so the clip's own root motion passes through.
func (n *OrientationWarpNode) performWarp(ctx *graph.Context, activationPct float32) string {
	n.warped = nil
	n.warpStartFrame, n.warpEndFrame = 0, 0
	n.desiredDelta = common.QuatIdentity

	clip := n.clipNode.Clip()
	if !clip.RootMotion.IsValid() {
		ctx.LogWarning(n.NodeIndex(), "orientation warp clip has no root motion", "clip", clip.Name)
		return warpOutcomeNoRootMotion
	}

	events := model.EventsOfType[*model.OrientationWarpEvent](clip)
	if len(events) == 0 || events[0].IsImmediate() {
		ctx.LogWarning(n.NodeIndex(), "no orientation warp event found, root motion left unwarped", "clip", clip.Name)
		return warpOutcomeNoEvent
	}
	warpEvent := events[0]

	// Window
	currentTime := activationPct * clip.Duration
	warpStart := max(warpEvent.StartTime(), currentTime)
	warpEnd := warpEvent.EndTime()
	if warpEnd-warpStart+common.Epsilon < MinWarpDuration {
		ctx.LogWarning(n.NodeIndex(), "orientation warp window too short", "clip", clip.Name, "start", warpStart, "end", warpEnd)
		return warpOutcomeShortWindow
	}

	orig := clip.RootMotion.Transforms
	lastFrame := int32(len(orig) - 1)
	startFrame := min(clip.GetFrameTime(warpStart).NearestFrameIndex(), lastFrame)
	endFrame := min(clip.GetFrameTime(warpEnd).UpperBoundFrameIndex(), lastFrame)
	numWarpFrames := endFrame - startFrame
	if numWarpFrames <= 0 {
		ctx.LogWarning(n.NodeIndex(), "orientation warp window covers no frames", "clip", clip.Name)
		return warpOutcomeNoWarpFrames
	}

	// Post-warp direction
	endTransform := orig[endFrame]
	postWarpDir := common.Vec3Horizontal(common.Vec3Sub(orig[lastFrame].Translation, endTransform.Translation))
	if common.Vec3IsNearZero(postWarpDir) {
		postWarpDir = common.Vec3Horizontal(endTransform.Forward())
	}
	if common.Vec3IsNearZero(postWarpDir) {
		postWarpDir = common.Vec3Forward
	}

	// Target direction, in clip space
	clipAtActivation := clip.RootMotion.SampleWorld(clip.GetFrameTime(currentTime))
	var targetDir [3]float32
	if !n.settings.IsOffsetNode {
		worldDir := n.target.GetVector(ctx)
		characterDir := common.QuatRotateVec3(common.QuatConjugate(ctx.WorldTransform().Rotation), worldDir)
		targetDir = common.Vec3Horizontal(clipAtActivation.TransformDirection(characterDir))
	} else {
		offset := common.QuatFromAxisAngle(common.Vec3Up, common.DegToRad(n.angleOffset.GetFloat(ctx)))
		base := postWarpDir
		if n.settings.IsOffsetRelativeToCharacter {
			base = common.Vec3Horizontal(clipAtActivation.Forward())
			if common.Vec3IsNearZero(base) {
				base = common.Vec3Forward
			}
		}
		targetDir = common.Vec3Horizontal(common.QuatRotateVec3(offset, base))
	}
	if common.Vec3IsNearZero(targetDir) {
		ctx.LogWarning(n.NodeIndex(), "orientation warp target direction is not horizontal", "clip", clip.Name)
		return warpOutcomeInvalidTarget
	}

	desired := common.QuatFromTo(postWarpDir, targetDir)

	// Rebuild the track: untouched up to the window, rotation spread across the window,
	// and the tail replayed relative to the warped end of the window.
	warped := make([]model.Transform, len(orig))
	copy(warped[:startFrame+1], orig[:startFrame+1])
	for i := startFrame + 1; i <= endFrame; i++ {
		t := n.settings.spread(float32(i-startFrame) / float32(numWarpFrames))
		spread := common.QuatSlerp(common.QuatIdentity, desired, t)
		warped[i] = model.Transform{
			Translation: orig[i].Translation,
			Rotation:    common.QuatNormalize(common.QuatMul(spread, orig[i].Rotation)),
			Scale:       orig[i].Scale,
		}
	}
	for i := endFrame + 1; i <= lastFrame; i++ {
		warped[i] = model.Delta(orig[i-1], orig[i]).Mul(warped[i-1])
	}

	n.warped = &model.RootMotionData{Transforms: warped}
	n.warpStartFrame, n.warpEndFrame = startFrame, endFrame
	n.desiredDelta = desired
	n.targetDirection = targetDir
	n.postWarpDir = postWarpDir
	n.worldAnchor = ctx.WorldTransform()
	n.clipAnchor = n.warped.SampleWorld(clip.GetFrameTime(currentTime))
	warpAngle.Observe(float64(common.RadToDeg(common.QuatAngle(desired))))
	return warpOutcomeApplied
}

func (n *OrientationWarpNode) Update(ctx *graph.Context) graph.PoseNodeResult {
	n.AssertInitialized()
	if n.WasUpdated(ctx) {
		return n.result
	}
	n.MarkNodeActive(ctx)
	if n.warpPending {
		n.activate(ctx, n.clipNode.CurrentTime())
	}
	return n.applyWarp(ctx, n.clipNode.Update(ctx))
}

func (n *OrientationWarpNode) UpdateSynchronized(ctx *graph.Context, updateRange sync_track.TimeRange) graph.PoseNodeResult {
	n.AssertInitialized()
	if n.WasUpdated(ctx) {
		return n.result
	}
	n.MarkNodeActive(ctx)
	if n.warpPending {
		n.activate(ctx, n.clipNode.SyncTrack().GetPercentageThrough(updateRange.Start))
	}
	return n.applyWarp(ctx, n.clipNode.UpdateSynchronized(ctx, updateRange))
}

// applyWarp replaces the clip's root motion delta with one sampled from the warped track.
func (n *OrientationWarpNode) applyWarp(ctx *graph.Context, clipResult graph.PoseNodeResult) graph.PoseNodeResult {
	prev, cur := n.clipNode.PreviousTime(), n.clipNode.CurrentTime()
	n.SetDuration(n.clipNode.Duration())
	n.SetTimes(prev, cur)
	n.SetSampledEventRange(clipResult.SampledEventRange)
	n.result = clipResult

	// The warped track describes a single pass through the clip.
	if n.warpActive && cur < prev {
		n.warpActive = false
	}
	if !n.warpActive {
		return n.result
	}

	clip := n.clipNode.Clip()
	curFrame := clip.GetFrameTimeFromPercentage(cur)
	switch n.settings.SamplingMode {
	case model.SamplingModeWorldSpace:
		target := model.Delta(n.clipAnchor, n.warped.SampleWorld(curFrame)).Mul(n.worldAnchor)
		n.result.RootMotionDelta = model.Delta(ctx.WorldTransform(), target)
	default:
		n.result.RootMotionDelta = n.warped.SampleDelta(clip.GetFrameTimeFromPercentage(prev), curFrame)
	}
	return n.result
}
