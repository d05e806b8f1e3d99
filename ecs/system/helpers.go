package system

import (
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/physics"
)

// solidMask selects everything a held object can bump into.
var solidMask = physics.AllLayers.Without(physics.LayerSelf, physics.LayerHeld)

func entityByName(w *ecs.World, name string) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if !ok && n.Value == name {
			found, ok = e, true
		}
	})
	return found, ok
}

// EntityName is e's Name, or its handle when it has none.
func EntityName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return e.String()
}

// setLayer changes the collider layer of e; the sync system pushes it to the
// physics world.
func setLayer(w *ecs.World, e ecs.Entity, layer physics.Layer) {
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		c.Layer = layer
	}
}
