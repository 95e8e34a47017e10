package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-4

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{-0.5, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp01(tt.in), "Clamp01(%v)", tt.in)
	}
}

func TestVec3Horizontal(t *testing.T) {
	assert.InDeltaSlice(t, []float32{1, 0, 0}, sliceOf(Vec3Horizontal([3]float32{2, 5, 0})), tol)
	assert.True(t, Vec3IsNearZero(Vec3Horizontal([3]float32{0, 3, 0})), "vertical vector has no horizontal direction")
}

func TestQuatRotateVec3_YawRightHanded(t *testing.T) {
	q := QuatFromAxisAngle(Vec3Up, DegToRad(90))
	got := QuatRotateVec3(q, Vec3Forward)
	assert.InDeltaSlice(t, []float32{1, 0, 0}, sliceOf(got), tol, "+90 degrees around +Y turns +Z into +X")
	assert.InDelta(t, math.Pi/2, float64(QuatYaw(q)), tol)
}

func TestQuatFromTo(t *testing.T) {
	right := [3]float32{1, 0, 0}
	q := QuatFromTo(Vec3Forward, right)
	assert.InDeltaSlice(t, sliceOf(right), sliceOf(QuatRotateVec3(q, Vec3Forward)), tol)
	assert.InDelta(t, 90, float64(RadToDeg(QuatAngle(q))), 1e-2)

	assert.Equal(t, QuatIdentity, QuatFromTo(Vec3Forward, Vec3Forward))

	back := [3]float32{0, 0, -1}
	half := QuatFromTo(Vec3Forward, back)
	assert.InDeltaSlice(t, sliceOf(back), sliceOf(QuatRotateVec3(half, Vec3Forward)), tol)
	assert.InDelta(t, 180, float64(RadToDeg(QuatAngle(half))), 1e-2, "opposite vectors rotate a half turn")
}

func TestQuatSlerp(t *testing.T) {
	q := QuatFromAxisAngle(Vec3Up, DegToRad(90))

	assert.True(t, QuatEqual(QuatIdentity, QuatSlerp(QuatIdentity, q, 0), tol))
	assert.True(t, QuatEqual(q, QuatSlerp(QuatIdentity, q, 1), tol))

	mid := QuatSlerp(QuatIdentity, q, 0.5)
	assert.InDelta(t, 45, float64(RadToDeg(QuatAngle(mid))), 1e-2)

	// Takes the short arc even when b is given with the opposite sign.
	neg := [4]float32{-q[0], -q[1], -q[2], -q[3]}
	assert.InDelta(t, 45, float64(RadToDeg(QuatAngle(QuatSlerp(QuatIdentity, neg, 0.5)))), 1e-2)
}

func TestQuatMul_Order(t *testing.T) {
	yaw := QuatFromAxisAngle(Vec3Up, DegToRad(90))
	pitch := QuatFromAxisAngle([3]float32{1, 0, 0}, DegToRad(90))

	// QuatMul(a, b) applies b first.
	got := QuatRotateVec3(QuatMul(yaw, pitch), Vec3Forward)
	want := QuatRotateVec3(yaw, QuatRotateVec3(pitch, Vec3Forward))
	assert.InDeltaSlice(t, sliceOf(want), sliceOf(got), tol)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, 3, Coalesce(0, 0, 3))
}

func sliceOf(v [3]float32) []float32 { return v[:] }
