package system

import (
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"go.uber.org/zap"
)

// ChargeSystem fills Charge near lit crystals and sky anchors and drains it
// elsewhere. Running out freezes the entity and publishes EventPlayerDied.
type ChargeSystem struct {
	logger *zap.Logger
}

func NewChargeSystem(logger *zap.Logger) *ChargeSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChargeSystem{logger: logger.Named("charge")}
}

func (s *ChargeSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Clock().FixedDt

	ecs.ForEach2(w, component.ChargeComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Charge, t *component.Transform) {
		if c.Depleted {
			return
		}
		if !c.Tick(dt, nearLight(w, c, t)) {
			return
		}
		if k, ok := ecs.Get(w, e, component.KinematicActorComponent.Kind()); ok {
			k.Frozen = true
		}
		evt := ecs.Event{Type: ecs.EventPlayerDied, Data: e}
		w.Events().Push(evt)
		w.Bus().Publish(evt)
		s.logger.Info("charge depleted", zap.String("entity", EntityName(w, e)))
	})
}

func nearLight(w *ecs.World, c *component.Charge, t *component.Transform) bool {
	near := false
	ecs.ForEach2(w, component.CrystalComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, cr *component.Crystal, ct *component.Transform) {
		if near || !cr.Active || !cr.Node.Lit() {
			return
		}
		near = common.Distance(ct.Position, t.Position) <= c.ChargeDistance
	})
	if near {
		return true
	}
	ecs.ForEach2(w, component.SkyAnchorTagComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.SkyAnchorTag, at *component.Transform) {
		if !near {
			near = common.Distance(at.Position, t.Position) <= c.SkyAnchorDistance
		}
	})
	return near
}
