package system

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/nav"
	"github.com/milk9111/lumen/physics"
	"go.uber.org/zap"
)

const (
	defaultSpacing       = 0.25
	defaultMaxExpansions = 200
	defaultTimeToTarget  = 0.1
)

// ManipulationSystem searches a fresh path from every linked held object to
// its holder's hold point each fixed tick. The object is moved to the self
// layer for the duration of the search.
type ManipulationSystem struct {
	world  *physics.World
	ctx    context.Context
	logger *zap.Logger
}

func NewManipulationSystem(ctx context.Context, world *physics.World, logger *zap.Logger) *ManipulationSystem {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManipulationSystem{world: world, ctx: ctx, logger: logger.Named("manipulation")}
}

func (s *ManipulationSystem) Update(w *ecs.World) {
	if s == nil || s.world == nil || w == nil {
		return
	}

	ecs.ForEach4(w, component.ManipulatorComponent.Kind(), component.InteractorComponent.Kind(), component.TransformComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, m *component.Manipulator, it *component.Interactor, t *component.Transform, in *component.Input) {
		if m.Held == 0 {
			return
		}
		item := ecs.Entity(m.Held)
		h, ok := ecs.Get(w, item, component.HoldableComponent.Kind())
		if !ok || h.Holder != uint64(e) {
			m.Reset()
			return
		}
		itemT, ok := ecs.Get(w, item, component.TransformComponent.Kind())
		if !ok {
			m.Reset()
			return
		}
		s.search(w, m, h, itemT, it.HoldPoint(t, in), in.YawRotation(), item)
	})
}

func (s *ManipulationSystem) search(w *ecs.World, m *component.Manipulator, h *component.Holdable, itemT *component.Transform, goal mgl64.Vec3, yaw mgl64.Quat, item ecs.Entity) {
	if c, ok := ecs.Get(w, item, component.ColliderComponent.Kind()); ok && c.Body != 0 {
		s.world.SetLayer(c.Body, physics.LayerSelf)
		defer s.world.SetLayer(c.Body, c.Layer)
	}

	spacing := orFloat(m.Spacing, defaultSpacing)
	start := itemT.Rot()
	end := yaw.Mul(mgl64.QuatRotate(m.Yaw, common.Up))
	at := itemT.Position
	if m.Path != nil {
		at = m.Path.PointAtDistance(math.Min(spacing, m.Path.TotalLength()))
	}
	if !s.rotationFits(at, h.HalfExtents, end) {
		end = start
	}

	req := nav.Request{
		Start:          itemT.Position,
		Goal:           goal,
		MaxExpansions:  orInt(m.MaxExpansions, defaultMaxExpansions),
		Spacing:        spacing,
		HalfExtents:    h.HalfExtents,
		Rotation:       end,
		Simplify:       m.Simplify,
		CollapseFactor: m.CollapseFactor,
	}
	res := nav.Pathfind(s.ctx, s.world, req)
	if res.Reason == nav.ReasonCancelled {
		return
	}

	m.Last = res
	m.Searches++
	m.Path = nav.NewPath(res.Points)
	m.Walker = nav.NewWalker(m.Path)
	m.Elapsed = 0
	m.StartRotation = start
	m.EndRotation = end

	if !res.Complete {
		s.logger.Debug("partial path",
			zap.Stringer("reason", res.Reason),
			zap.Int("expansions", res.Expansions),
			zap.Int("points", len(res.Points)),
		)
	}
}

// rotationFitScale inflates the box checked before turning, so a rotation
// is only taken with some room to spare.
const rotationFitScale = 1.1

// rotationFits reports whether the box turned to rotation is clear at at.
func (s *ManipulationSystem) rotationFits(at, halfExtents mgl64.Vec3, rotation mgl64.Quat) bool {
	box := halfExtents.Mul(rotationFitScale)
	return len(s.world.OverlapBox(at, box, rotation, physics.AllLayers.Without(physics.LayerSelf))) == 0
}

// ManipulationAnimator moves linked held objects along their current path
// every frame and turns them toward the requested rotation.
type ManipulationAnimator struct{}

func NewManipulationAnimator() *ManipulationAnimator { return &ManipulationAnimator{} }

func (a *ManipulationAnimator) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().FrameDt

	ecs.ForEach2(w, component.ManipulatorComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, m *component.Manipulator, in *component.Input) {
		if m.Held == 0 {
			return
		}
		m.Yaw += in.Scroll * mgl64.DegToRad(m.RotateStep)
		if m.Path == nil || m.Walker == nil {
			return
		}
		itemT, ok := ecs.Get(w, ecs.Entity(m.Held), component.TransformComponent.Kind())
		if !ok {
			return
		}

		m.Elapsed += dt
		t := 1.0
		if ttt := orFloat(m.TimeToTarget, defaultTimeToTarget); ttt > 0 {
			t = common.Clamp01(m.Elapsed / ttt)
		}
		itemT.Position = m.Walker.At(t * m.Path.TotalLength())
		itemT.Rotation = mgl64.QuatSlerp(m.StartRotation, m.EndRotation, t)
	})
}

func orFloat(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
