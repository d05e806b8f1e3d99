package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/ecs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

// NewPlayerAt builds the player standing at pos, which also becomes its
// respawn point.
func NewPlayerAt(w *ecs.World, pos mgl64.Vec3) (ecs.Entity, error) {
	e, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, pos, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return e, nil
}
