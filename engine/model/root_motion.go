package model

// RootMotionSamplingMode selects how a root motion track is turned into a per-update delta.
type RootMotionSamplingMode int

const (
	// SamplingModeDelta returns the difference between the track's transforms at the
	// previous and current playback times.
	SamplingModeDelta RootMotionSamplingMode = iota

	// SamplingModeWorldSpace anchors the track to the character's world transform at
	// activation and returns the delta from the current world transform to the
	// anchored target, which removes accumulated drift.
	SamplingModeWorldSpace
)

// RootMotionData holds the root bone's transform for every sampled frame of a clip,
// expressed relative to the clip's first frame.
type RootMotionData struct {
	// Transforms has one entry per clip frame.
	Transforms []Transform
}

// NumFrames returns the number of sampled root transforms.
func (r *RootMotionData) NumFrames() int {
	if r == nil {
		return 0
	}
	return len(r.Transforms)
}

// IsValid reports whether the track holds at least one frame.
func (r *RootMotionData) IsValid() bool {
	return r.NumFrames() > 0
}

// Clone returns a deep copy of the track.
func (r *RootMotionData) Clone() *RootMotionData {
	if r == nil {
		return nil
	}
	c := &RootMotionData{Transforms: make([]Transform, len(r.Transforms))}
	copy(c.Transforms, r.Transforms)
	return c
}

// SampleWorld returns the interpolated root transform at the given frame time.
// Frame indices past either end are clamped. An empty track samples as identity.
//
// Parameters:
//   - ft: the frame time to sample
//
// Returns:
//   - Transform: the root transform relative to the clip's first frame
func (r *RootMotionData) SampleWorld(ft FrameTime) Transform {
	n := int32(r.NumFrames())
	if n == 0 {
		return IdentityTransform
	}
	idx := ft.FrameIndex
	if idx < 0 {
		return r.Transforms[0]
	}
	if idx >= n-1 {
		return r.Transforms[n-1]
	}
	if ft.PercentageThrough <= 0 {
		return r.Transforms[idx]
	}
	return Interpolate(r.Transforms[idx], r.Transforms[idx+1], ft.PercentageThrough)
}

// SampleDelta returns the local-space delta between the track's transforms at two frame times.
//
// Parameters:
//   - from: the earlier frame time
//   - to: the later frame time
//
// Returns:
//   - Transform: the delta, such that delta.Mul(SampleWorld(from)) == SampleWorld(to)
func (r *RootMotionData) SampleDelta(from, to FrameTime) Transform {
	if r.NumFrames() == 0 {
		return IdentityTransform
	}
	return Delta(r.SampleWorld(from), r.SampleWorld(to))
}
