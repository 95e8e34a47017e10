package model

import (
	"math"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// NumFrames returns the number of sampled frames in the clip, including the frame at Duration.
// A clip with no duration or frame rate has a single frame.
func (c *AnimationClip) NumFrames() int32 {
	if c.Duration <= 0 || c.FrameRate <= 0 {
		return 1
	}
	return int32(math.Round(float64(c.Duration*c.FrameRate))) + 1
}

// FrameDuration returns the length of a single frame in seconds, or 0 for single-frame clips.
func (c *AnimationClip) FrameDuration() float32 {
	n := c.NumFrames()
	if n <= 1 {
		return 0
	}
	return c.Duration / float32(n-1)
}

// GetFrameTime converts a time in seconds into a FrameTime, clamped to the clip.
//
// Parameters:
//   - t: the time in seconds from the start of the clip
//
// Returns:
//   - FrameTime: the frame index and percentage through that frame
func (c *AnimationClip) GetFrameTime(t float32) FrameTime {
	frameDuration := c.FrameDuration()
	if frameDuration <= 0 || t <= 0 {
		return FrameTime{}
	}
	last := c.NumFrames() - 1
	if t >= c.Duration {
		return FrameTime{FrameIndex: last}
	}

	f := t / frameDuration
	idx := int32(math.Floor(float64(f)))
	pct := f - float32(idx)
	if pct >= 1-frameSnapTolerance {
		idx++
		pct = 0
	}
	if idx >= last {
		return FrameTime{FrameIndex: last}
	}
	return FrameTime{FrameIndex: idx, PercentageThrough: pct}
}

// GetFrameTimeFromPercentage converts a normalized clip time in [0, 1] into a FrameTime.
func (c *AnimationClip) GetFrameTimeFromPercentage(p float32) FrameTime {
	return c.GetFrameTime(common.Clamp01(p) * c.Duration)
}

// GetTime returns the time in seconds at which the given frame is sampled.
func (c *AnimationClip) GetTime(frameIndex int32) float32 {
	return float32(frameIndex) * c.FrameDuration()
}

// GetTimeFromFrameTime returns the time in seconds addressed by a FrameTime.
func (c *AnimationClip) GetTimeFromFrameTime(ft FrameTime) float32 {
	return (float32(ft.FrameIndex) + ft.PercentageThrough) * c.FrameDuration()
}

// RootMotionDelta returns the root motion accumulated while playback moved between two
// normalized times. When looped is set the interval wraps through the end of the clip.
//
// Parameters:
//   - from: the previous normalized time
//   - to: the current normalized time
//   - looped: whether playback passed the end of the clip in between
//
// Returns:
//   - Transform: the local-space root motion delta
func (c *AnimationClip) RootMotionDelta(from, to float32, looped bool) Transform {
	if !c.RootMotion.IsValid() {
		return IdentityTransform
	}
	if !looped {
		return c.RootMotion.SampleDelta(c.GetFrameTimeFromPercentage(from), c.GetFrameTimeFromPercentage(to))
	}
	toEnd := c.RootMotion.SampleDelta(c.GetFrameTimeFromPercentage(from), c.GetFrameTimeFromPercentage(1))
	fromStart := c.RootMotion.SampleDelta(FrameTime{}, c.GetFrameTimeFromPercentage(to))
	return fromStart.Mul(toEnd)
}

// SamplePose writes the clip's local bone transforms at time t into pose.
// Bones without a channel keep the skeleton's bind-local transform.
//
// Parameters:
//   - t: the time in seconds from the start of the clip
//   - pose: the destination pose; must be sized for the skeleton the clip animates
func (c *AnimationClip) SamplePose(t float32, pose *Pose) {
	pose.Reset()
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.BoneIndex < 0 || int(ch.BoneIndex) >= len(pose.Transforms) {
			continue
		}
		local := &pose.Transforms[ch.BoneIndex]
		if len(ch.PositionKeys) > 0 {
			local.Translation = sampleVectorKeys(ch.PositionKeys, t)
		}
		if len(ch.RotationKeys) > 0 {
			local.Rotation = sampleQuaternionKeys(ch.RotationKeys, t)
		}
		if len(ch.ScaleKeys) > 0 {
			local.Scale = sampleVectorKeys(ch.ScaleKeys, t)
		}
	}
}

// keySegment finds the pair of keys surrounding t and the blend factor between them.
func keySegment(n int, timeAt func(int) float32, t float32) (int, int, float32) {
	if n == 1 || t <= timeAt(0) {
		return 0, 0, 0
	}
	if t >= timeAt(n-1) {
		return n - 1, n - 1, 0
	}
	next := sort.Search(n, func(i int) bool { return timeAt(i) > t })
	prev := next - 1
	span := timeAt(next) - timeAt(prev)
	if span <= 0 {
		return prev, prev, 0
	}
	return prev, next, (t - timeAt(prev)) / span
}

func sampleVectorKeys(keys []VectorKeyframe, t float32) [3]float32 {
	a, b, f := keySegment(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if a == b {
		return keys[a].Value
	}
	return common.Vec3Lerp(keys[a].Value, keys[b].Value, f)
}

func sampleQuaternionKeys(keys []QuaternionKeyframe, t float32) [4]float32 {
	a, b, f := keySegment(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if a == b {
		return keys[a].Value
	}
	return common.QuatSlerp(keys[a].Value, keys[b].Value, f)
}
