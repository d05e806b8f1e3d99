package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	gameplay "github.com/milk9111/lumen/component"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/physics"
)

func newCrystal(t *testing.T, w *ecs.World, kind gameplay.CrystalKind, pos mgl64.Vec3, active bool) (ecs.Entity, *component.Crystal) {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos})
	c := mustAdd(t, w, e, component.CrystalComponent.Kind(), &component.Crystal{
		Node:   &gameplay.Crystal{Kind: kind},
		Active: active,
	})
	return e, c
}

func TestCrystalSystemPropagatesLight(t *testing.T) {
	w := ecs.NewWorld()
	sys := NewCrystalSystem(physics.NewWorld(), nil)

	lit := 0
	w.Bus().Subscribe(ecs.CreateEntity(w), ecs.EventLit, func(ecs.Event) { lit++ })

	_, sun := newCrystal(t, w, gameplay.Sun, mgl64.Vec3{0, 5, 0}, true)
	relay, transmitter := newCrystal(t, w, gameplay.Transmitter, mgl64.Vec3{5, 5, 0}, true)
	loose, collector := newCrystal(t, w, gameplay.Collector, mgl64.Vec3{10, 0, 0}, false)
	h := mustAdd(t, w, loose, component.HoldableComponent.Kind(), &component.Holdable{})

	sys.Update(w)
	if sun.Node.Level != gameplay.FullLight || transmitter.Node.Level != 0 {
		t.Fatalf("after one update sun=%v transmitter=%v", sun.Node.Level, transmitter.Node.Level)
	}
	sys.Update(w)
	if transmitter.Node.Level != gameplay.FullLight {
		t.Fatalf("transmitter did not pick up sunlight: %v", transmitter.Node.Level)
	}
	if lit != 2 {
		t.Fatalf("lit events = %d, want 2", lit)
	}
	if sys.Graph().Len() != 2 || collector.Active {
		t.Fatalf("inactive collector joined the graph")
	}

	h.Holder = 99
	sys.Update(w)
	if !collector.Active || sys.Graph().Len() != 3 {
		t.Fatalf("picked up collector was not activated")
	}
	if !collector.Node.Held || !collector.Node.Lit() {
		t.Fatalf("collector under open sky should be lit: %+v", collector.Node)
	}

	ecs.DestroyEntity(w, relay)
	sys.Update(w)
	if sys.Graph().Len() != 2 {
		t.Fatalf("destroyed crystal still registered")
	}
	if lit != 3 {
		t.Fatalf("lit events = %d, want 3", lit)
	}
}
