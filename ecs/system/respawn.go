package system

import (
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"go.uber.org/zap"
)

type RespawnSystem struct {
	logger *zap.Logger
}

func NewRespawnSystem(logger *zap.Logger) *RespawnSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RespawnSystem{logger: logger.Named("respawn")}
}

// Update restores entities whose charge ran out once their delay passed. It
// should run after the ChargeSystem.
func (s *RespawnSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Clock().FixedDt

	ecs.ForEach2(w, component.RespawnComponent.Kind(), component.ChargeComponent.Kind(), func(e ecs.Entity, r *component.Respawn, c *component.Charge) {
		if !c.Depleted {
			r.Elapsed = 0
			return
		}
		r.Elapsed += dt
		if r.Elapsed < r.Delay {
			return
		}

		r.Elapsed = 0
		c.Reset()
		if k, ok := ecs.Get(w, e, component.KinematicActorComponent.Kind()); ok {
			k.Place(r.Point)
			k.Frozen = false
		}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = r.Point
		}
		s.logger.Info("respawned", zap.String("entity", EntityName(w, e)))
	})
}
