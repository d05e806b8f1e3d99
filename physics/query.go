package physics

import "github.com/go-gl/mathgl/mgl64"

// Layer identifies the collision layer of a body.
type Layer uint8

const (
	LayerDefault   Layer = 0
	LayerHeld      Layer = 8 // carried items, no collisions with the player
	LayerCrystal   Layer = 9
	LayerInventory Layer = 11
	LayerStacked   Layer = 12
	LayerStatic    Layer = 13 // floors, shelves, anything items rest on
	LayerSelf      Layer = 15 // the object currently being pathfound
)

// LayerMask selects the layers a query considers.
type LayerMask uint32

// AllLayers includes every layer.
const AllLayers LayerMask = ^LayerMask(0)

func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= 1 << l
	}
	return m
}

func (m LayerMask) Has(l Layer) bool {
	return m&(1<<l) != 0
}

// Without returns m with the given layers removed.
func (m LayerMask) Without(layers ...Layer) LayerMask {
	return m &^ MaskOf(layers...)
}

// BodyID identifies a body inside a query service.
type BodyID uint32

// Collider is what a query reports about an intersected body.
type Collider struct {
	ID    BodyID
	Layer Layer
	Owner uint64
}

// Hit describes the first contact of a cast.
type Hit struct {
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Collider Collider
}

// Query is the spatial query service gameplay code runs against. Trigger
// volumes are never reported.
type Query interface {
	// OverlapBox returns every collider on a masked layer that intersects the
	// oriented box.
	OverlapBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat, mask LayerMask) []Collider
	// SphereCast sweeps a sphere from origin along dir (unit) up to maxDist.
	// Colliders the sphere starts inside are ignored.
	SphereCast(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDist float64, mask LayerMask) (Hit, bool)
	// Raycast is a SphereCast with zero radius.
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask LayerMask) (Hit, bool)
}

var layerNames = map[string]Layer{
	"default":   LayerDefault,
	"held":      LayerHeld,
	"crystal":   LayerCrystal,
	"inventory": LayerInventory,
	"stacked":   LayerStacked,
	"static":    LayerStatic,
	"self":      LayerSelf,
}

// ParseLayer maps a prefab layer name to a Layer. The empty name is the
// default layer.
func ParseLayer(name string) (Layer, bool) {
	if name == "" {
		return LayerDefault, true
	}
	l, ok := layerNames[name]
	return l, ok
}
