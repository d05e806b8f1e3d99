package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/physics"
)

// Collider is an oriented box following the entity's Transform. Body is
// filled in by the collider sync system.
type Collider struct {
	HalfExtents mgl64.Vec3
	Layer       physics.Layer
	Trigger     bool

	Body physics.BodyID
}

var ColliderComponent = NewComponent[Collider]()
