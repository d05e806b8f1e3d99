package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Side names an edge of a footprint. North is +Z on the ground plane.
type Side int

const (
	North Side = iota
	East
	South
	West
)

// SideFromIndex maps 0..3 clockwise from North. Anything else is North.
func SideFromIndex(i int) Side {
	if i < 0 || i > 3 {
		return North
	}
	return Side(i)
}

// Footprint is the ground-plane rectangle an object covers. Ground
// coordinates map world X to cp X and world Z to cp Y.
type Footprint struct {
	Center cp.Vector
	Width  float64 // along X
	Depth  float64 // along Z
	// FromGround is the height of the object's center above the surface it
	// rests on.
	FromGround float64
	// Turned is set while the footprint is rotated a quarter turn from the
	// object's own orientation.
	Turned bool
}

// FootprintOf projects an oriented box onto the ground plane.
func FootprintOf(center, halfExtents mgl64.Vec3, rotation mgl64.Quat) Footprint {
	if rotation == (mgl64.Quat{}) {
		rotation = mgl64.QuatIdent()
	}
	var ext mgl64.Vec3
	for i, axis := range []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		a := rotation.Rotate(axis).Mul(halfExtents[i])
		ext = ext.Add(mgl64.Vec3{math.Abs(a.X()), math.Abs(a.Y()), math.Abs(a.Z())})
	}
	return Footprint{
		Center:     cp.Vector{X: center.X(), Y: center.Z()},
		Width:      ext.X() * 2,
		Depth:      ext.Z() * 2,
		FromGround: ext.Y(),
	}
}

// BB returns the footprint as a chipmunk bounding box.
func (f Footprint) BB() cp.BB {
	hw, hd := f.Width/2, f.Depth/2
	return cp.BB{L: f.Center.X - hw, B: f.Center.Y - hd, R: f.Center.X + hw, T: f.Center.Y + hd}
}

func (f Footprint) Area() float64 {
	return f.Width * f.Depth
}

func (f Footprint) LongerSide() float64 {
	return math.Max(f.Width, f.Depth)
}

// Overlaps reports whether two footprints share any area.
func (f Footprint) Overlaps(o Footprint) bool {
	return f.BB().Intersects(o.BB())
}

// SetPosition moves the footprint center on the ground plane.
func (f *Footprint) SetPosition(p cp.Vector) {
	f.Center = p
}

// WorldPosition is the object position that rests the footprint on a
// surface at height ground.
func (f Footprint) WorldPosition(ground float64) mgl64.Vec3 {
	return mgl64.Vec3{f.Center.X, ground + f.FromGround, f.Center.Y}
}

// Rotation is the extra yaw applied by DominoRotate.
func (f Footprint) Rotation() mgl64.Quat {
	if !f.Turned {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
}

// Edge returns the edge vector on the given side: horizontal sides are
// (width, 0), vertical sides are (0, depth).
func (f Footprint) Edge(side Side) cp.Vector {
	if side == North || side == South {
		return cp.Vector{X: f.Width}
	}
	return cp.Vector{Y: f.Depth}
}

func (f Footprint) EdgeLength(side Side) float64 {
	return f.Edge(side).Length()
}

func (f *Footprint) turn() {
	f.Width, f.Depth = f.Depth, f.Width
	f.Turned = !f.Turned
}

// DominoRotate turns the footprint so it fits against edge: when both sides
// fit the longer side lies along the edge, otherwise the shorter one does.
func (f *Footprint) DominoRotate(edge cp.Vector) {
	alongX := edge.X != 0
	length := edge.Y
	if alongX {
		length = edge.X
	}

	if f.Width <= length && f.Depth <= length {
		if (f.Width >= f.Depth) != alongX {
			f.turn()
		}
		return
	}
	if (f.Width <= f.Depth) != alongX {
		f.turn()
	}
}

// SignedNormalOffset is the signed distance between the centers of a and b
// perpendicular to the side of a that b is placed on.
func SignedNormalOffset(a, b Footprint, side Side, padding float64) float64 {
	x := a.Width/2 + b.Width/2 + padding
	z := a.Depth/2 + b.Depth/2 + padding
	switch side {
	case North:
		return z
	case East:
		return x
	case South:
		return -z
	default:
		return -x
	}
}

// SignedCenterOffset is the offset along the edge that lines up the left
// ends of two edges.
func SignedCenterOffset(a, b cp.Vector, side Side) float64 {
	offset := (a.Length() - b.Length()) / 2
	switch side {
	case North, West:
		return -offset
	default:
		return offset
	}
}

// AlignLeftOn places f against the left end of datum's side.
func (f *Footprint) AlignLeftOn(datum Footprint, side Side, padding float64) {
	edge := datum.Edge(side)
	f.DominoRotate(edge)

	normal := SignedNormalOffset(datum, *f, side, padding)
	along := SignedCenterOffset(edge, f.Edge(side), side)
	f.SetPosition(datum.Center.Add(sideOffset(edge, normal, along)))
}

// AlignCenterOn places f centered against datum's side.
func (f *Footprint) AlignCenterOn(datum Footprint, side Side, padding float64) {
	edge := datum.Edge(side)
	f.DominoRotate(edge)

	normal := SignedNormalOffset(datum, *f, side, padding)
	f.SetPosition(datum.Center.Add(sideOffset(edge, normal, 0)))
}

func sideOffset(edge cp.Vector, normal, along float64) cp.Vector {
	if edge.X == 0 {
		return cp.Vector{X: normal, Y: along}
	}
	return cp.Vector{X: along, Y: normal}
}
