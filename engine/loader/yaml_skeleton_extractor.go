package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// extractSkeleton converts the YAML bone list into a model.Skeleton. Parents are named and
// must be declared before their children.
//
// Parameters:
//   - ys: the YAML skeleton, may be nil
//
// Returns:
//   - *model.Skeleton: the skeleton, or nil when the asset declares none
//   - error: error wrapping ErrInvalidAsset for duplicate or unknown bones
func extractSkeleton(ys *yamlSkeleton) (*model.Skeleton, error) {
	if ys == nil || len(ys.Bones) == 0 {
		return nil, nil
	}

	skeleton := &model.Skeleton{
		Bones:           make([]model.Bone, len(ys.Bones)),
		BoneNameToIndex: make(map[string]int32, len(ys.Bones)),
	}
	for i, yb := range ys.Bones {
		if yb.Name == "" {
			return nil, fmt.Errorf("%w: bone %d has no name", ErrInvalidAsset, i)
		}
		if _, dup := skeleton.BoneNameToIndex[yb.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate bone %q", ErrInvalidAsset, yb.Name)
		}

		parent := int32(-1)
		if yb.Parent != "" {
			idx, ok := skeleton.BoneNameToIndex[yb.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: bone %q has unknown or later parent %q", ErrInvalidAsset, yb.Name, yb.Parent)
			}
			parent = idx
		} else {
			skeleton.RootBoneIndices = append(skeleton.RootBoneIndices, int32(i))
		}

		local := model.IdentityTransform
		if yb.Translation != nil {
			local.Translation = *yb.Translation
		}
		if yb.Rotation != nil {
			local.Rotation = common.QuatNormalize(*yb.Rotation)
		}
		if yb.Scale != nil {
			local.Scale = *yb.Scale
		}

		skeleton.Bones[i] = model.Bone{Name: yb.Name, ParentIndex: parent, LocalTransform: local}
		skeleton.BoneNameToIndex[yb.Name] = int32(i)
	}
	return skeleton, nil
}
