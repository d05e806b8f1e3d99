package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
)

// KinematicActor is a collide-and-slide body. Input accumulates every frame
// and is consumed by the next fixed tick, which moves Next; the displayed
// position lerps from Prev to Next.
type KinematicActor struct {
	Radius    float64
	Height    float64
	Speed     float64
	SkinWidth float64
	MaxSlope  float64
	Gravity   float64

	Prev        mgl64.Vec3
	Next        mgl64.Vec3
	Accumulated mgl64.Vec3
	Frozen      bool
}

// Place puts the actor at p without interpolating from its old position.
func (k *KinematicActor) Place(p mgl64.Vec3) {
	k.Prev, k.Next = p, p
	k.Accumulated = mgl64.Vec3{}
}

// Interpolate returns the display position for alpha in [0, 1].
func (k *KinematicActor) Interpolate(alpha float64) mgl64.Vec3 {
	return common.LerpVec(k.Prev, k.Next, common.Clamp01(alpha))
}

var KinematicActorComponent = NewComponent[KinematicActor]()
