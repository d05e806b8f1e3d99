package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type body struct {
	id      BodyID
	box     Box
	layer   Layer
	trigger bool
	owner   uint64
}

// World is an in-memory Query implementation over oriented boxes. It is the
// query service used by the sandbox host, the bench tool and tests; an
// engine integration supplies its own Query instead.
type World struct {
	bodies []body
	index  map[BodyID]int
	nextID BodyID
}

var _ Query = (*World)(nil)

func NewWorld() *World {
	return &World{index: make(map[BodyID]int)}
}

// Add inserts a solid box on the given layer.
func (w *World) Add(box Box, layer Layer) BodyID {
	return w.add(box, layer, false, 0)
}

// AddOwned inserts a solid box tagged with an owner (usually an entity).
func (w *World) AddOwned(box Box, layer Layer, owner uint64) BodyID {
	return w.add(box, layer, false, owner)
}

// AddTrigger inserts a box that queries never report.
func (w *World) AddTrigger(box Box, layer Layer, owner uint64) BodyID {
	return w.add(box, layer, true, owner)
}

func (w *World) add(box Box, layer Layer, trigger bool, owner uint64) BodyID {
	w.nextID++
	id := w.nextID
	w.index[id] = len(w.bodies)
	w.bodies = append(w.bodies, body{id: id, box: box, layer: layer, trigger: trigger, owner: owner})
	return id
}

// Remove deletes a body. Unknown ids are ignored.
func (w *World) Remove(id BodyID) {
	idx, ok := w.index[id]
	if !ok {
		return
	}
	last := len(w.bodies) - 1
	if idx != last {
		w.bodies[idx] = w.bodies[last]
		w.index[w.bodies[idx].id] = idx
	}
	w.bodies = w.bodies[:last]
	delete(w.index, id)
}

func (w *World) SetBox(id BodyID, box Box) {
	if idx, ok := w.index[id]; ok {
		w.bodies[idx].box = box
	}
}

func (w *World) SetLayer(id BodyID, layer Layer) {
	if idx, ok := w.index[id]; ok {
		w.bodies[idx].layer = layer
	}
}

// Layer returns the current layer of a body.
func (w *World) Layer(id BodyID) (Layer, bool) {
	idx, ok := w.index[id]
	if !ok {
		return 0, false
	}
	return w.bodies[idx].layer, true
}

func (w *World) Box(id BodyID) (Box, bool) {
	idx, ok := w.index[id]
	if !ok {
		return Box{}, false
	}
	return w.bodies[idx].box, true
}

func (w *World) Len() int {
	return len(w.bodies)
}

// Each calls fn for every body, triggers included, in insertion order until
// a body is removed.
func (w *World) Each(fn func(id BodyID, box Box, layer Layer, trigger bool)) {
	for _, b := range w.bodies {
		fn(b.id, b.box, b.layer, b.trigger)
	}
}

func (w *World) OverlapBox(center, halfExtents mgl64.Vec3, rotation mgl64.Quat, mask LayerMask) []Collider {
	probe := Box{Center: center, HalfExtents: halfExtents, Rotation: rotation}
	var out []Collider
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.trigger || !mask.Has(b.layer) {
			continue
		}
		if probe.Intersects(b.box) {
			out = append(out, Collider{ID: b.id, Layer: b.layer, Owner: b.owner})
		}
	}
	return out
}

func (w *World) SphereCast(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDist float64, mask LayerMask) (Hit, bool) {
	l := dir.Len()
	if l < 1e-12 {
		return Hit{}, false
	}
	dir = dir.Mul(1 / l)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.trigger || !mask.Has(b.layer) {
			continue
		}
		dist, normal, ok := b.box.cast(origin, dir, radius, maxDist)
		if !ok || dist >= best.Distance {
			continue
		}
		best = Hit{
			Distance: dist,
			Normal:   normal,
			Point:    origin.Add(dir.Mul(dist)).Sub(normal.Mul(radius)),
			Collider: Collider{ID: b.id, Layer: b.layer, Owner: b.owner},
		}
		found = true
	}
	return best, found
}

func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask LayerMask) (Hit, bool) {
	return w.SphereCast(origin, 0, dir, maxDist, mask)
}
