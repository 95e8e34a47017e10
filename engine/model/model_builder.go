package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the bone hierarchy of the Model.
// Missing BoneNameToIndex and RootBoneIndices tables are derived from the bones.
//
// Parameters:
//   - skeleton: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		if skeleton != nil {
			if skeleton.BoneNameToIndex == nil {
				skeleton.BoneNameToIndex = make(map[string]int32, len(skeleton.Bones))
				for i, b := range skeleton.Bones {
					skeleton.BoneNameToIndex[b.Name] = int32(i)
				}
			}
			if skeleton.RootBoneIndices == nil {
				for i, b := range skeleton.Bones {
					if b.ParentIndex < 0 {
						skeleton.RootBoneIndices = append(skeleton.RootBoneIndices, int32(i))
					}
				}
			}
		}
		m.skeleton = skeleton
	}
}

// WithAnimations is an option builder that sets the animation clips of the Model.
//
// Parameters:
//   - animations: the animation clips to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(animations []*AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = animations
	}
}

// WithAnimation is an option builder that appends a single clip to the Model.
//
// Parameters:
//   - clip: the animation clip to append
//
// Returns:
//   - ModelBuilderOption: a function that appends the clip to a model
func WithAnimation(clip *AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = append(m.animations, clip)
	}
}
