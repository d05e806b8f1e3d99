package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/physics"
)

const (
	// MaxSlideDepth bounds the collide-and-slide recursion.
	MaxSlideDepth = 10

	DefaultSkinWidth = 0.015
	DefaultMaxSlope  = 40.0
)

// Mover resolves desired displacements against a physics.Query with a
// recursive collide-and-slide. A zero Mover is not usable; set Query and
// Radius at least.
type Mover struct {
	Query  physics.Query
	Radius float64
	// SkinWidth is kept between the sphere and any surface it hits.
	SkinWidth float64
	// MaxSlope is the steepest walkable surface in degrees from up.
	MaxSlope float64
	// Mask selects the layers the mover collides with. Zero means every
	// layer except the self and held layers.
	Mask physics.LayerMask
}

// NewMover returns a Mover with the default skin width and slope limit.
func NewMover(query physics.Query, radius float64) *Mover {
	return &Mover{
		Query:     query,
		Radius:    radius,
		SkinWidth: DefaultSkinWidth,
		MaxSlope:  DefaultMaxSlope,
	}
}

func (m *Mover) mask() physics.LayerMask {
	if m.Mask == 0 {
		return physics.AllLayers.Without(physics.LayerSelf, physics.LayerHeld)
	}
	return m.Mask
}

func (m *Mover) skin() float64 {
	if m.SkinWidth <= 0 {
		return DefaultSkinWidth
	}
	return m.SkinWidth
}

func (m *Mover) maxSlope() float64 {
	if m.MaxSlope <= 0 {
		return DefaultMaxSlope
	}
	return m.MaxSlope
}

// ResolveMovement returns how much of displacement can be applied from
// position, sliding along whatever it hits.
func (m *Mover) ResolveMovement(displacement, position mgl64.Vec3) mgl64.Vec3 {
	return m.slide(displacement, position, 0, false, displacement)
}

// ResolveGravity is ResolveMovement for a pure-down pass: it stops on
// walkable ground instead of sliding down it.
func (m *Mover) ResolveGravity(displacement, position mgl64.Vec3) mgl64.Vec3 {
	return m.slide(displacement, position, 0, true, displacement)
}

// Step resolves the input displacement and then gravity from wherever the
// input pass ended, and returns the resulting position.
func (m *Mover) Step(input, position, gravity mgl64.Vec3) mgl64.Vec3 {
	moved := m.ResolveMovement(input, position)
	fell := m.ResolveGravity(gravity, position.Add(moved))
	return position.Add(moved).Add(fell)
}

func (m *Mover) slide(vel, pos mgl64.Vec3, depth int, gravityPass bool, initial mgl64.Vec3) mgl64.Vec3 {
	if depth >= MaxSlideDepth {
		return mgl64.Vec3{}
	}
	dist := vel.Len()
	if dist == 0 || m.Query == nil {
		return vel
	}
	skin := m.skin()
	dir := vel.Mul(1 / dist)

	hit, ok := m.Query.SphereCast(pos, m.Radius, dir, dist+skin, m.mask())
	if !ok {
		return vel
	}

	var snap mgl64.Vec3
	if d := hit.Distance - skin; d > skin {
		snap = dir.Mul(d)
	}
	leftover := vel.Sub(snap)
	mag := leftover.Len()

	if common.Angle(common.Up, hit.Normal) <= m.maxSlope() {
		if gravityPass {
			return snap
		}
		leftover = common.Normalize(common.ProjectOnPlane(leftover, hit.Normal)).Mul(mag)
	} else {
		scale := 1 - common.Normalize(common.Flatten(hit.Normal)).Dot(common.Normalize(common.Flatten(initial.Mul(-1))))
		leftover = common.Normalize(common.ProjectOnPlane(leftover, hit.Normal)).Mul(mag * scale)
	}

	return snap.Add(m.slide(leftover, pos.Add(snap), depth+1, gravityPass, initial))
}
