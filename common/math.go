package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// Down is the world down axis.
var Down = mgl64.Vec3{0, -1, 0}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// LerpVec interpolates between a and b without clamping t.
func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// ProjectOnPlane removes the component of v along the plane normal n.
func ProjectOnPlane(v, n mgl64.Vec3) mgl64.Vec3 {
	n = Normalize(n)
	return v.Sub(n.Mul(v.Dot(n)))
}

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// Angle returns the angle between a and b in degrees.
func Angle(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < 1e-12 || lb < 1e-12 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	cos = math.Max(-1, math.Min(1, cos))
	return mgl64.RadToDeg(math.Acos(cos))
}

// Distance is the euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// SamePoint reports whether a and b are within eps of each other.
func SamePoint(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).LenSqr() <= eps*eps
}

// YawRotation keeps only the rotation around the up axis of q.
func YawRotation(q mgl64.Quat) mgl64.Quat {
	fwd := Flatten(q.Rotate(mgl64.Vec3{0, 0, 1}))
	if fwd.LenSqr() < 1e-12 {
		return mgl64.QuatIdent()
	}
	fwd = Normalize(fwd)
	return mgl64.QuatRotate(math.Atan2(fwd.X(), fwd.Z()), Up)
}

// FromToRotation returns the rotation taking direction from onto direction to.
func FromToRotation(from, to mgl64.Vec3) mgl64.Quat {
	from, to = Normalize(from), Normalize(to)
	if from.LenSqr() == 0 || to.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(from, to)
}
