package model

// frameSnapTolerance absorbs float error when a time lands on a frame boundary.
const frameSnapTolerance float32 = 1e-4

// FrameTime addresses a point on a clip timeline as a frame index plus the
// percentage travelled towards the next frame.
type FrameTime struct {
	// FrameIndex is the index of the frame at or before the addressed time.
	FrameIndex int32

	// PercentageThrough is the fraction [0, 1) between FrameIndex and FrameIndex+1.
	PercentageThrough float32
}

// LowerBoundFrameIndex returns the frame at or before the addressed time.
func (f FrameTime) LowerBoundFrameIndex() int32 {
	return f.FrameIndex
}

// UpperBoundFrameIndex returns the first frame at or after the addressed time.
func (f FrameTime) UpperBoundFrameIndex() int32 {
	if f.PercentageThrough > frameSnapTolerance {
		return f.FrameIndex + 1
	}
	return f.FrameIndex
}

// NearestFrameIndex returns the frame closest to the addressed time, rounding halves up.
func (f FrameTime) NearestFrameIndex() int32 {
	if f.PercentageThrough >= 0.5 {
		return f.FrameIndex + 1
	}
	return f.FrameIndex
}
