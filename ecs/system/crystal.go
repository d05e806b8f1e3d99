package system

import (
	gameplay "github.com/milk9111/lumen/component"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/physics"
	"go.uber.org/zap"
)

// CrystalSystem keeps the light graph in step with crystal entities and
// propagates light once per fixed tick.
type CrystalSystem struct {
	graph  *gameplay.LightGraph
	nodes  map[uint64]ecs.Entity
	logger *zap.Logger
}

func NewCrystalSystem(query physics.Query, logger *zap.Logger) *CrystalSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CrystalSystem{
		graph:  gameplay.NewLightGraph(query),
		nodes:  make(map[uint64]ecs.Entity),
		logger: logger.Named("crystal"),
	}
}

// Graph exposes the light graph to other systems.
func (s *CrystalSystem) Graph() *gameplay.LightGraph {
	if s == nil {
		return nil
	}
	return s.graph
}

func (s *CrystalSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.CrystalComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Crystal, t *component.Transform) {
		if c.Node == nil {
			return
		}
		c.Node.ID = uint64(e)
		c.Node.Position = t.Position
		h, ok := ecs.Get(w, e, component.HoldableComponent.Kind())
		c.Node.Held = ok && h.Held()
		if !c.Active && c.Node.Held {
			c.Active = true
		}
		if c.Active && s.graph.Active(c.Node.ID) == nil {
			s.graph.Register(c.Node)
			s.nodes[c.Node.ID] = e
			s.logger.Debug("crystal activated", zap.String("crystal", EntityName(w, e)), zap.Stringer("kind", c.Node.Kind))
		}
	})

	for id, e := range s.nodes {
		if c, ok := ecs.Get(w, e, component.CrystalComponent.Kind()); ok && c.Active {
			continue
		}
		s.graph.Unregister(id)
		delete(s.nodes, id)
	}

	s.graph.Update()

	ecs.ForEach(w, component.CrystalComponent.Kind(), func(e ecs.Entity, c *component.Crystal) {
		if c.Node == nil || !c.Active {
			return
		}
		lit := c.Node.Lit()
		if lit && !c.WasLit {
			w.Bus().Publish(ecs.Event{Type: ecs.EventLit, Data: e})
		}
		c.WasLit = lit
	})
}
