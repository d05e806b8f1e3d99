package system

import (
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/physics"
)

// ColliderSyncSystem mirrors Collider components into the physics world:
// bodies are created on first sight, follow the entity Transform and layer,
// and are removed with their entity.
type ColliderSyncSystem struct {
	world  *physics.World
	owners map[physics.BodyID]ecs.Entity
}

func NewColliderSyncSystem(world *physics.World) *ColliderSyncSystem {
	return &ColliderSyncSystem{world: world, owners: make(map[physics.BodyID]ecs.Entity)}
}

func (s *ColliderSyncSystem) Update(w *ecs.World) {
	if s == nil || s.world == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		box := physics.Box{Center: t.Position, HalfExtents: c.HalfExtents, Rotation: t.Rot()}
		if c.Body == 0 {
			if c.Trigger {
				c.Body = s.world.AddTrigger(box, c.Layer, uint64(e))
			} else {
				c.Body = s.world.AddOwned(box, c.Layer, uint64(e))
			}
			s.owners[c.Body] = e
			return
		}
		s.world.SetBox(c.Body, box)
		s.world.SetLayer(c.Body, c.Layer)
	})

	for id, e := range s.owners {
		c, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
		if ok && c.Body == id {
			continue
		}
		s.world.Remove(id)
		delete(s.owners, id)
	}
}
