package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	gameplay "github.com/milk9111/lumen/component"
)

// Interactor lets an entity target, pick up and place holdables.
type Interactor struct {
	Reach        float64
	EyeHeight    float64
	HoldDistance float64
	PlaceTime    float64

	Target   uint64
	Holding  uint64
	Pickup   uint64
	PickupOf uint64
}

// Eye is the point interaction rays start from.
func (i *Interactor) Eye(t *Transform) mgl64.Vec3 {
	return t.Position.Add(mgl64.Vec3{0, i.EyeHeight, 0})
}

// HoldPoint is where held objects are pulled to.
func (i *Interactor) HoldPoint(t *Transform, in *Input) mgl64.Vec3 {
	return i.Eye(t).Add(in.Look().Mul(i.HoldDistance))
}

var InteractorComponent = NewComponent[Interactor]()

// Look is the unit view direction for the input's yaw and pitch.
func (in *Input) Look() mgl64.Vec3 {
	cp := math.Cos(in.Pitch)
	return mgl64.Vec3{math.Sin(in.Yaw) * cp, math.Sin(in.Pitch), math.Cos(in.Yaw) * cp}
}

// YawRotation is the body rotation for the input's yaw.
func (in *Input) YawRotation() mgl64.Quat {
	return mgl64.QuatRotate(in.Yaw, mgl64.Vec3{0, 1, 0})
}

// Charge keeps the player alive near light.
type Charge struct {
	gameplay.Charge
	ChargeDistance    float64
	SkyAnchorDistance float64
}

var ChargeComponent = NewComponent[Charge]()
