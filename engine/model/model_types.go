package model

// --- Transform & Skeleton Types ---

// Transform represents a decomposed transform for animation interpolation and root motion.
// Scale is expected to be uniform whenever a Transform is inverted.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// Bone represents a single bone in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for debugging and animation targeting).
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	ParentIndex int32

	// LocalTransform is the bone's bind-pose transform relative to its parent.
	// Pose sampling falls back to it for bones that no clip channel animates.
	LocalTransform Transform
}

// Skeleton represents a bone hierarchy for skeletal animation.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton, parents before children.
	Bones []Bone

	// RootBoneIndices are indices of bones with no parent.
	RootBoneIndices []int32

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32
}

// --- Animation Types ---

// AnimationClip represents a single compiled animation (walk, run, turn, etc.).
// Clips are immutable once handed to a graph definition and shared by every graph instance.
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// FrameRate is the number of sampled frames per second of the compiled clip.
	FrameRate float32

	// Channels contains animation data for each animated bone.
	Channels []AnimationChannel

	// RootMotion holds one root transform per sampled frame. May be nil for in-place clips.
	RootMotion *RootMotionData

	// SyncMarkers are the author-placed sync events partitioning the clip timeline, sorted by time.
	SyncMarkers []SyncMarker

	// Events are the author-placed events of the clip, sorted by start time.
	Events []Event
}

// AnimationChannel contains keyframe data for a single bone.
type AnimationChannel struct {
	// BoneIndex is the index of the bone this channel animates.
	BoneIndex int32

	// PositionKeys are keyframes for translation.
	PositionKeys []VectorKeyframe

	// RotationKeys are keyframes for rotation (quaternion).
	RotationKeys []QuaternionKeyframe

	// ScaleKeys are keyframes for scale.
	ScaleKeys []VectorKeyframe
}

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the 3D vector value at this keyframe.
	Value [3]float32
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32
}

// SyncMarker is a named point on a clip timeline where a sync event starts.
type SyncMarker struct {
	// ID identifies the sync event (e.g. "LeftFootDown").
	ID string

	// Time is the marker position in seconds from the start of the clip.
	Time float32
}
