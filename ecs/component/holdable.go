package component

import (
	"github.com/go-gl/mathgl/mgl64"
	gameplay "github.com/milk9111/lumen/component"
	"github.com/milk9111/lumen/physics"
)

// Holdable is an object the player can pick up. Link holdables hover in
// front of the player and follow a path; the others are carried locked to
// the hold point.
type Holdable struct {
	HalfExtents    mgl64.Vec3
	PickupTime     float64
	Link           bool
	Identifier     string
	AdditionalInfo string
	Message        string

	// runtime
	Holder    uint64
	Slot      uint64
	Inventory uint64
	Snap      gameplay.SnapPosition
	Placing   bool
	RestLayer physics.Layer
}

// Held reports whether someone carries the object.
func (h *Holdable) Held() bool {
	return h != nil && h.Holder != 0
}

// Footprint returns the ground rectangle of the object at pose.
func (h *Holdable) Footprint(t *Transform) gameplay.Footprint {
	return gameplay.FootprintOf(t.Position, h.HalfExtents, t.Rot())
}

var HoldableComponent = NewComponent[Holdable]()
