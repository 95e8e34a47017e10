package model

// Pose is a buffer of local bone transforms for one skeleton.
type Pose struct {
	skeleton *Skeleton

	// Transforms holds one local transform per skeleton bone.
	Transforms []Transform
}

// NewPose allocates a pose for the skeleton, initialized to the bind pose.
// A nil skeleton yields an empty pose, which is valid for graphs that only drive root motion.
//
// Parameters:
//   - skeleton: the skeleton the pose describes
//
// Returns:
//   - *Pose: the allocated pose
func NewPose(skeleton *Skeleton) *Pose {
	p := &Pose{skeleton: skeleton}
	if skeleton != nil {
		p.Transforms = make([]Transform, len(skeleton.Bones))
	}
	p.Reset()
	return p
}

// Skeleton returns the skeleton this pose was allocated for.
func (p *Pose) Skeleton() *Skeleton {
	return p.skeleton
}

// Reset restores every bone to its bind-local transform.
func (p *Pose) Reset() {
	if p.skeleton == nil {
		return
	}
	for i := range p.Transforms {
		p.Transforms[i] = p.skeleton.Bones[i].LocalTransform
	}
}

// CopyFrom copies another pose's transforms into p. Both must share a skeleton.
func (p *Pose) CopyFrom(o *Pose) {
	copy(p.Transforms, o.Transforms)
}
