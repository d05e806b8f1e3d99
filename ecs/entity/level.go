package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/levels"
	"github.com/milk9111/lumen/physics"
)

// LoadLevelToWorld creates a collider entity per static box and builds every
// placed prefab. It returns the player entity, or 0 when the level has none.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) (ecs.Entity, error) {
	if w == nil || lvl == nil {
		return 0, fmt.Errorf("load level: world and level are required")
	}

	for i, s := range lvl.Statics {
		if err := addStatic(w, s); err != nil {
			return 0, fmt.Errorf("load level %q: static %d: %w", lvl.Name, i, err)
		}
	}

	var player ecs.Entity
	for i, placed := range lvl.Entities {
		e, err := BuildEntity(w, placed.Prefab)
		if err != nil {
			return 0, fmt.Errorf("load level %q: entity %d: %w", lvl.Name, i, err)
		}
		if err := SetEntityTransform(w, e, mgl64.Vec3(placed.Position), placed.Yaw); err != nil {
			return 0, err
		}
		if placed.Name != "" {
			if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: placed.Name}); err != nil {
				return 0, err
			}
		}
		if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			player = e
		}
	}
	return player, nil
}

func addStatic(w *ecs.World, s levels.Static) error {
	half := mgl64.Vec3(s.HalfExtents)
	if !positive(half) {
		return fmt.Errorf("half_extents must be positive, got %v", s.HalfExtents)
	}
	layer := physics.LayerStatic
	if s.Layer != "" {
		l, ok := physics.ParseLayer(s.Layer)
		if !ok {
			return fmt.Errorf("unknown layer %q", s.Layer)
		}
		layer = l
	}

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: mgl64.Vec3(s.Center),
		Rotation: yawQuat(s.Yaw),
	}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{HalfExtents: half, Layer: layer})
}
