package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an oriented box in world space.
type Box struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Rotation    mgl64.Quat
}

// NewAABB builds an axis-aligned box from its min and max corners.
func NewAABB(min, max mgl64.Vec3) Box {
	return Box{
		Center:      min.Add(max).Mul(0.5),
		HalfExtents: max.Sub(min).Mul(0.5),
		Rotation:    mgl64.QuatIdent(),
	}
}

func (b Box) axes() [3]mgl64.Vec3 {
	q := b.rotation()
	return [3]mgl64.Vec3{
		q.Rotate(mgl64.Vec3{1, 0, 0}),
		q.Rotate(mgl64.Vec3{0, 1, 0}),
		q.Rotate(mgl64.Vec3{0, 0, 1}),
	}
}

// rotation treats the zero quaternion as identity so literal boxes work.
func (b Box) rotation() mgl64.Quat {
	if b.Rotation.W == 0 && b.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return b.Rotation.Normalize()
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p mgl64.Vec3) bool {
	local := b.rotation().Inverse().Rotate(p.Sub(b.Center))
	for i := 0; i < 3; i++ {
		if math.Abs(local[i]) > b.HalfExtents[i] {
			return false
		}
	}
	return true
}

// Intersects runs the separating axis test between two oriented boxes.
// Touching faces count as intersecting.
func (b Box) Intersects(o Box) bool {
	const eps = 1e-9

	a := b.axes()
	c := o.axes()
	ae := b.HalfExtents
	be := o.HalfExtents

	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a[i].Dot(c[j])
			absR[i][j] = math.Abs(r[i][j]) + eps
		}
	}

	d := o.Center.Sub(b.Center)
	t := [3]float64{d.Dot(a[0]), d.Dot(a[1]), d.Dot(a[2])}

	for i := 0; i < 3; i++ {
		ra := ae[i]
		rb := be[0]*absR[i][0] + be[1]*absR[i][1] + be[2]*absR[i][2]
		if math.Abs(t[i]) > ra+rb {
			return false
		}
	}

	for j := 0; j < 3; j++ {
		ra := ae[0]*absR[0][j] + ae[1]*absR[1][j] + ae[2]*absR[2][j]
		rb := be[j]
		if math.Abs(t[0]*r[0][j]+t[1]*r[1][j]+t[2]*r[2][j]) > ra+rb {
			return false
		}
	}

	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			ra := ae[i1]*absR[i2][j] + ae[i2]*absR[i1][j]
			rb := be[j1]*absR[i][j2] + be[j2]*absR[i][j1]
			if math.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) > ra+rb {
				return false
			}
		}
	}

	return true
}

// cast sweeps a sphere of the given radius against the box by testing a ray
// against the box inflated by radius. Edges and corners are treated as
// square, so grazing hits near them arrive slightly early.
func (b Box) cast(origin, dir mgl64.Vec3, radius, maxDist float64) (float64, mgl64.Vec3, bool) {
	q := b.rotation()
	inv := q.Inverse()
	lo := inv.Rotate(origin.Sub(b.Center))
	ld := inv.Rotate(dir)
	ext := b.HalfExtents.Add(mgl64.Vec3{radius, radius, radius})

	tmin := math.Inf(-1)
	tmax := math.Inf(1)
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if math.Abs(ld[i]) < 1e-12 {
			if math.Abs(lo[i]) > ext[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (-ext[i] - lo[i]) / ld[i]
		t2 := (ext[i] - lo[i]) / ld[i]
		n := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			n = 1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = n
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}

	// starting inside, or the box is behind the origin
	if axis < 0 || tmin < 0 || tmin > maxDist {
		return 0, mgl64.Vec3{}, false
	}

	var local mgl64.Vec3
	local[axis] = sign
	return tmin, q.Rotate(local), true
}
