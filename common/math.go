package common

import (
	"math"
)

// Epsilon is the tolerance used for near-zero checks on lengths and quaternion dot products.
const Epsilon float32 = 1e-5

// QuatIdentity is the identity rotation (x, y, z, w).
var QuatIdentity = [4]float32{0, 0, 0, 1}

// Vec3Forward is the character forward axis. The engine is Y-up with +Z forward.
var Vec3Forward = [3]float32{0, 0, 1}

// Vec3Up is the world up axis.
var Vec3Up = [3]float32{0, 1, 0}

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * (math.Pi / 180)
}

// RadToDeg converts an angle in radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * (180 / math.Pi)
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// --- Vector helpers ---

// Vec3Add returns a + b.
func Vec3Add(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Vec3Sub returns a - b.
func Vec3Sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Vec3Scale returns v * s.
func Vec3Scale(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Vec3Mul returns the component-wise product of a and b.
func Vec3Mul(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Vec3Dot returns the dot product of a and b.
func Vec3Dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Vec3Cross returns the cross product a x b.
func Vec3Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Vec3Length returns the euclidean length of v.
func Vec3Length(v [3]float32) float32 {
	return float32(math.Sqrt(float64(Vec3Dot(v, v))))
}

// Vec3Lerp linearly interpolates each component of a and b.
func Vec3Lerp(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// Vec3Normalize returns v scaled to unit length.
// A vector shorter than Epsilon is returned as the zero vector.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - [3]float32: the normalized vector or the zero vector
func Vec3Normalize(v [3]float32) [3]float32 {
	l := Vec3Length(v)
	if l < Epsilon {
		return [3]float32{}
	}
	return Vec3Scale(v, 1/l)
}

// Vec3Horizontal projects v onto the XZ plane and normalizes the result.
// Returns the zero vector when the horizontal component is near zero.
//
// Parameters:
//   - v: the vector to project
//
// Returns:
//   - [3]float32: the normalized horizontal direction or the zero vector
func Vec3Horizontal(v [3]float32) [3]float32 {
	return Vec3Normalize([3]float32{v[0], 0, v[2]})
}

// Vec3IsNearZero reports whether every component of v is within Epsilon of zero.
func Vec3IsNearZero(v [3]float32) bool {
	return Vec3Length(v) < Epsilon
}

// --- Quaternion helpers ---

// QuatMul returns the Hamilton product a * b. Applied to a vector, b rotates first and a second.
//
// Parameters:
//   - a: left-hand quaternion (x, y, z, w)
//   - b: right-hand quaternion (x, y, z, w)
//
// Returns:
//   - [4]float32: the product quaternion
func QuatMul(a, b [4]float32) [4]float32 {
	return [4]float32{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// QuatConjugate returns the conjugate of q, which is its inverse for unit quaternions.
func QuatConjugate(q [4]float32) [4]float32 {
	return [4]float32{-q[0], -q[1], -q[2], q[3]}
}

// QuatDot returns the 4D dot product of a and b.
func QuatDot(a, b [4]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// QuatNormalize returns q scaled to unit length, or the identity if q is degenerate.
func QuatNormalize(q [4]float32) [4]float32 {
	l := float32(math.Sqrt(float64(QuatDot(q, q))))
	if l < Epsilon {
		return QuatIdentity
	}
	inv := 1 / l
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// QuatFromAxisAngle builds a rotation of angle radians around a unit axis.
//
// Parameters:
//   - axis: the unit rotation axis
//   - angle: the rotation angle in radians
//
// Returns:
//   - [4]float32: the rotation quaternion
func QuatFromAxisAngle(axis [3]float32, angle float32) [4]float32 {
	s, c := math.Sincos(float64(angle) / 2)
	return [4]float32{axis[0] * float32(s), axis[1] * float32(s), axis[2] * float32(s), float32(c)}
}

// QuatRotateVec3 rotates v by the unit quaternion q.
//
// Parameters:
//   - q: the unit rotation quaternion
//   - v: the vector to rotate
//
// Returns:
//   - [3]float32: the rotated vector
func QuatRotateVec3(q [4]float32, v [3]float32) [3]float32 {
	u := [3]float32{q[0], q[1], q[2]}
	// v' = v + 2w(u x v) + 2(u x (u x v))
	t := Vec3Scale(Vec3Cross(u, v), 2)
	return Vec3Add(Vec3Add(v, Vec3Scale(t, q[3])), Vec3Cross(u, t))
}

// QuatFromTo returns the shortest rotation taking the unit vector from onto the unit vector to.
// Opposite vectors rotate half a turn around the up axis when possible, since the callers
// only ever rotate horizontal directions.
//
// Parameters:
//   - from: the normalized source direction
//   - to: the normalized destination direction
//
// Returns:
//   - [4]float32: the rotation quaternion
func QuatFromTo(from, to [3]float32) [4]float32 {
	d := Vec3Dot(from, to)
	if d >= 1-Epsilon {
		return QuatIdentity
	}
	if d <= -1+Epsilon {
		if math.Abs(float64(Vec3Dot(from, Vec3Up))) < float64(Epsilon) {
			return QuatFromAxisAngle(Vec3Up, math.Pi)
		}
		axis := Vec3Normalize(Vec3Cross(from, Vec3Up))
		if Vec3IsNearZero(axis) {
			axis = [3]float32{1, 0, 0}
		}
		return QuatFromAxisAngle(axis, math.Pi)
	}
	c := Vec3Cross(from, to)
	return QuatNormalize([4]float32{c[0], c[1], c[2], 1 + d})
}

// QuatSlerp spherically interpolates between a and b along the shortest arc.
// Falls back to normalized linear interpolation when the quaternions are nearly parallel.
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation parameter in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated unit quaternion
func QuatSlerp(a, b [4]float32, t float32) [4]float32 {
	cos := QuatDot(a, b)
	if cos < 0 {
		b = [4]float32{-b[0], -b[1], -b[2], -b[3]}
		cos = -cos
	}

	var wa, wb float32
	if cos > 1-Epsilon {
		wa, wb = 1-t, t
	} else {
		theta := math.Acos(float64(cos))
		sin := math.Sin(theta)
		wa = float32(math.Sin((1-float64(t))*theta) / sin)
		wb = float32(math.Sin(float64(t)*theta) / sin)
	}
	return QuatNormalize([4]float32{
		a[0]*wa + b[0]*wb,
		a[1]*wa + b[1]*wb,
		a[2]*wa + b[2]*wb,
		a[3]*wa + b[3]*wb,
	})
}

// QuatAngle returns the rotation angle of the unit quaternion q in radians, in [0, pi].
func QuatAngle(q [4]float32) float32 {
	w := math.Abs(float64(q[3]))
	if w > 1 {
		w = 1
	}
	return float32(2 * math.Acos(w))
}

// QuatYaw returns the heading of q in radians: the signed angle of the rotated forward axis around +Y.
func QuatYaw(q [4]float32) float32 {
	f := QuatRotateVec3(q, Vec3Forward)
	return float32(math.Atan2(float64(f[0]), float64(f[2])))
}

// QuatEqual reports whether a and b represent the same rotation within tolerance.
// q and -q are considered equal.
func QuatEqual(a, b [4]float32, tolerance float32) bool {
	return 1-float32(math.Abs(float64(QuatDot(a, b)))) <= tolerance
}
