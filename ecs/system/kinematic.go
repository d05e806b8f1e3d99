package system

import (
	"github.com/go-gl/mathgl/mgl64"
	gameplay "github.com/milk9111/lumen/component"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/physics"
)

// KinematicInputSystem turns Input into accumulated displacement every frame.
type KinematicInputSystem struct{}

func NewKinematicInputSystem() *KinematicInputSystem { return &KinematicInputSystem{} }

func (s *KinematicInputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().FrameDt

	ecs.ForEach3(w, component.KinematicActorComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, k *component.KinematicActor, in *component.Input, t *component.Transform) {
		t.Rotation = in.YawRotation()
		if k.Frozen {
			k.Accumulated = mgl64.Vec3{}
			return
		}
		move := mgl64.Vec3{in.MoveX, 0, in.MoveZ}
		if move.Len() > 1 {
			move = move.Normalize()
		}
		k.Accumulated = k.Accumulated.Add(t.Rotation.Rotate(move).Mul(k.Speed * dt))
	})
}

// KinematicSystem resolves accumulated displacement and gravity through the
// collide-and-slide mover once per fixed tick.
type KinematicSystem struct {
	query physics.Query
}

func NewKinematicSystem(query physics.Query) *KinematicSystem {
	return &KinematicSystem{query: query}
}

func (s *KinematicSystem) Update(w *ecs.World) {
	if s == nil || s.query == nil || w == nil {
		return
	}
	dt := w.Clock().FixedDt

	ecs.ForEach(w, component.KinematicActorComponent.Kind(), func(e ecs.Entity, k *component.KinematicActor) {
		k.Prev = k.Next
		if k.Frozen {
			k.Accumulated = mgl64.Vec3{}
			return
		}

		mover := gameplay.NewMover(s.query, k.Radius)
		if k.SkinWidth > 0 {
			mover.SkinWidth = k.SkinWidth
		}
		if k.MaxSlope > 0 {
			mover.MaxSlope = k.MaxSlope
		}
		gravity := mgl64.Vec3{0, -k.Gravity * dt, 0}
		k.Next = mover.Step(k.Accumulated, k.Next, gravity)
		k.Accumulated = mgl64.Vec3{}
	})
}

// KinematicInterpolationSystem places actors between their last two tick
// positions.
type KinematicInterpolationSystem struct{}

func NewKinematicInterpolationSystem() *KinematicInterpolationSystem {
	return &KinematicInterpolationSystem{}
}

func (s *KinematicInterpolationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	alpha := w.Clock().Alpha()
	ecs.ForEach2(w, component.KinematicActorComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, k *component.KinematicActor, t *component.Transform) {
		t.Position = k.Interpolate(alpha)
	})
}
