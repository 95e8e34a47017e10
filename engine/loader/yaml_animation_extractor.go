package loader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
)

// extractAnimations converts every YAML clip into a model.AnimationClip.
//
// Parameters:
//   - clips: the YAML clips
//   - skeleton: the skeleton channels are resolved against, may be nil
//
// Returns:
//   - []*model.AnimationClip: the clips in declaration order
//   - error: error wrapping ErrInvalidAsset for malformed clips
func extractAnimations(clips []yamlClip, skeleton *model.Skeleton) ([]*model.AnimationClip, error) {
	out := make([]*model.AnimationClip, 0, len(clips))
	seen := make(map[string]bool, len(clips))
	for i := range clips {
		yc := &clips[i]
		if yc.Name == "" {
			return nil, fmt.Errorf("%w: clip %d has no name", ErrInvalidAsset, i)
		}
		if seen[yc.Name] {
			return nil, fmt.Errorf("%w: duplicate clip %q", ErrInvalidAsset, yc.Name)
		}
		seen[yc.Name] = true

		clip, err := extractAnimation(yc, skeleton)
		if err != nil {
			return nil, fmt.Errorf("clip %q: %w", yc.Name, err)
		}
		out = append(out, clip)
	}
	return out, nil
}

func extractAnimation(yc *yamlClip, skeleton *model.Skeleton) (*model.AnimationClip, error) {
	if yc.Duration < 0 || yc.FrameRate < 0 {
		return nil, fmt.Errorf("%w: negative duration or frame rate", ErrInvalidAsset)
	}
	clip := &model.AnimationClip{
		Name:      yc.Name,
		Duration:  yc.Duration,
		FrameRate: yc.FrameRate,
	}

	for _, m := range yc.SyncMarkers {
		clip.SyncMarkers = append(clip.SyncMarkers, model.SyncMarker{ID: m.ID, Time: m.Time})
	}
	sort.SliceStable(clip.SyncMarkers, func(i, j int) bool { return clip.SyncMarkers[i].Time < clip.SyncMarkers[j].Time })

	for i, ye := range yc.Events {
		e, err := extractEvent(ye)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		clip.Events = append(clip.Events, e)
	}
	sort.SliceStable(clip.Events, func(i, j int) bool { return clip.Events[i].StartTime() < clip.Events[j].StartTime() })

	if yc.RootMotion != nil {
		rm, err := extractRootMotion(yc.RootMotion, clip)
		if err != nil {
			return nil, err
		}
		clip.RootMotion = rm
	}

	for _, ych := range yc.Channels {
		if skeleton == nil {
			return nil, fmt.Errorf("%w: channel for bone %q without a skeleton", ErrInvalidAsset, ych.Bone)
		}
		boneIdx, ok := skeleton.BoneNameToIndex[ych.Bone]
		if !ok {
			return nil, fmt.Errorf("%w: channel for unknown bone %q", ErrInvalidAsset, ych.Bone)
		}
		ch := model.AnimationChannel{BoneIndex: boneIdx}
		for _, k := range ych.PositionKeys {
			ch.PositionKeys = append(ch.PositionKeys, model.VectorKeyframe{Time: k.Time, Value: k.Value})
		}
		for _, k := range ych.RotationKeys {
			ch.RotationKeys = append(ch.RotationKeys, model.QuaternionKeyframe{Time: k.Time, Value: common.QuatNormalize(k.Value)})
		}
		for _, k := range ych.ScaleKeys {
			ch.ScaleKeys = append(ch.ScaleKeys, model.VectorKeyframe{Time: k.Time, Value: k.Value})
		}
		clip.Channels = append(clip.Channels, ch)
	}
	return clip, nil
}

func extractEvent(ye yamlEvent) (model.Event, error) {
	if ye.Start < 0 || ye.Duration < 0 {
		return nil, fmt.Errorf("%w: negative event timing", ErrInvalidAsset)
	}
	base := model.EventBase{Start: ye.Start, Length: ye.Duration}
	switch ye.Type {
	case "id":
		if ye.ID == "" {
			return nil, fmt.Errorf("%w: id event without id", ErrInvalidAsset)
		}
		return &model.IDEvent{EventBase: base, ID: ye.ID}, nil
	case "foot":
		phase, err := model.ParseFootPhase(ye.Phase)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
		}
		return &model.FootEvent{EventBase: base, Phase: phase}, nil
	case "orientation_warp":
		return &model.OrientationWarpEvent{EventBase: base}, nil
	case "transition":
		rule, err := model.ParseTransitionRule(common.Coalesce(ye.Rule, "Allow"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
		}
		return &model.TransitionEvent{EventBase: base, Rule: rule, ID: ye.ID}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidAsset, ye.Type)
	}
}

// extractRootMotion builds one root transform per clip frame, either from explicit frames or
// by integrating a constant character-space velocity while turning at a constant yaw rate
// (degrees per second).
func extractRootMotion(yrm *yamlRootMotion, clip *model.AnimationClip) (*model.RootMotionData, error) {
	numFrames := int(clip.NumFrames())

	if len(yrm.Frames) > 0 {
		if len(yrm.Frames) != numFrames {
			return nil, fmt.Errorf("%w: root motion has %d frames, clip has %d", ErrInvalidAsset, len(yrm.Frames), numFrames)
		}
		rm := &model.RootMotionData{Transforms: make([]model.Transform, numFrames)}
		for i, f := range yrm.Frames {
			rot := common.QuatIdentity
			if f.Rotation != nil {
				rot = common.QuatNormalize(*f.Rotation)
			}
			rm.Transforms[i] = model.NewTransform(f.Translation, rot)
		}
		return rm, nil
	}

	var velocity [3]float32
	if yrm.Velocity != nil {
		velocity = *yrm.Velocity
	}
	frameDuration := clip.FrameDuration()
	yawRate := common.DegToRad(yrm.YawRate)

	rm := &model.RootMotionData{Transforms: make([]model.Transform, numFrames)}
	rm.Transforms[0] = model.IdentityTransform
	for i := 1; i < numFrames; i++ {
		prev := rm.Transforms[i-1]
		step := common.QuatRotateVec3(prev.Rotation, common.Vec3Scale(velocity, frameDuration))
		yaw := yawRate * frameDuration * float32(i)
		rm.Transforms[i] = model.NewTransform(
			common.Vec3Add(prev.Translation, step),
			common.QuatFromAxisAngle(common.Vec3Up, yaw),
		)
	}
	return rm, nil
}
