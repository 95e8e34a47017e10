package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// IdentityTransform is the transform that leaves everything in place.
var IdentityTransform = Transform{
	Rotation: common.QuatIdentity,
	Scale:    [3]float32{1, 1, 1},
}

// NewTransform creates a unit-scale transform from a translation and rotation.
//
// Parameters:
//   - translation: the position offset
//   - rotation: the orientation quaternion (x, y, z, w)
//
// Returns:
//   - Transform: the composed transform
func NewTransform(translation [3]float32, rotation [4]float32) Transform {
	return Transform{Translation: translation, Rotation: rotation, Scale: [3]float32{1, 1, 1}}
}

// Mul composes two transforms so that the result applies t first and then parent.
// With column vectors this is parent.Matrix() * t.Matrix().
//
// Parameters:
//   - parent: the transform applied after t
//
// Returns:
//   - Transform: the composed transform
func (t Transform) Mul(parent Transform) Transform {
	return Transform{
		Translation: common.Vec3Add(common.QuatRotateVec3(parent.Rotation, common.Vec3Mul(parent.Scale, t.Translation)), parent.Translation),
		Rotation:    common.QuatNormalize(common.QuatMul(parent.Rotation, t.Rotation)),
		Scale:       common.Vec3Mul(t.Scale, parent.Scale),
	}
}

// Inverse returns the transform undoing t. Only valid for uniform scale.
func (t Transform) Inverse() Transform {
	invRot := common.QuatConjugate(t.Rotation)
	invScale := [3]float32{1, 1, 1}
	for i := range invScale {
		if t.Scale[i] != 0 {
			invScale[i] = 1 / t.Scale[i]
		}
	}
	translation := common.QuatRotateVec3(invRot, common.Vec3Scale(t.Translation, -1))
	return Transform{
		Translation: common.Vec3Mul(invScale, translation),
		Rotation:    invRot,
		Scale:       invScale,
	}
}

// Delta returns the transform d, expressed in from's local space, such that d.Mul(from) == to.
//
// Parameters:
//   - from: the starting transform
//   - to: the ending transform
//
// Returns:
//   - Transform: the local-space delta between the two
func Delta(from, to Transform) Transform {
	return to.Mul(from.Inverse())
}

// Interpolate blends a towards b: translation and scale linearly, rotation spherically.
//
// Parameters:
//   - a: the transform at t = 0
//   - b: the transform at t = 1
//   - t: the blend parameter in [0, 1]
//
// Returns:
//   - Transform: the interpolated transform
func Interpolate(a, b Transform, t float32) Transform {
	return Transform{
		Translation: common.Vec3Lerp(a.Translation, b.Translation, t),
		Rotation:    common.QuatSlerp(a.Rotation, b.Rotation, t),
		Scale:       common.Vec3Lerp(a.Scale, b.Scale, t),
	}
}

// Forward returns the transform's facing direction (its rotated +Z axis).
func (t Transform) Forward() [3]float32 {
	return common.QuatRotateVec3(t.Rotation, common.Vec3Forward)
}

// TransformDirection rotates a direction by t's rotation, ignoring translation and scale.
func (t Transform) TransformDirection(v [3]float32) [3]float32 {
	return common.QuatRotateVec3(t.Rotation, v)
}

// IsNearEqual reports whether t and o match within tolerance on every component.
func (t Transform) IsNearEqual(o Transform, tolerance float32) bool {
	if common.Vec3Length(common.Vec3Sub(t.Translation, o.Translation)) > tolerance {
		return false
	}
	if common.Vec3Length(common.Vec3Sub(t.Scale, o.Scale)) > tolerance {
		return false
	}
	return common.QuatEqual(t.Rotation, o.Rotation, tolerance)
}
