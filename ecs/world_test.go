package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/lumen/ecs/component"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }
type frozen struct{}
type label string

var (
	positionKind = component.NewComponent[position]().Kind()
	velocityKind = component.NewComponent[velocity]().Kind()
	frozenKind   = component.NewComponent[frozen]().Kind()
	labelKind    = component.NewComponent[label]().Kind()
)

func intPtr(i int) *int {
	return &i
}

func labelPtr(s string) *label {
	l := label(s)
	return &l
}

func TestEntityHandles(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)

	if a.id() != 1 || b.id() != 2 {
		t.Fatalf("ids = %d, %d; want 1, 2", a.id(), b.id())
	}
	if !a.Valid() || Entity(0).Valid() {
		t.Fatalf("Valid: a=%v zero=%v", a.Valid(), Entity(0).Valid())
	}
	if a.String() != "1" {
		t.Fatalf("String = %q, want %q", a.String(), "1")
	}

	if !DestroyEntity(w, a) {
		t.Fatalf("DestroyEntity(a) = false")
	}
	if DestroyEntity(w, a) {
		t.Fatalf("second DestroyEntity(a) = true")
	}

	c := CreateEntity(w)
	if c.id() != a.id() || c.generation() != a.generation()+1 {
		t.Fatalf("recycled handle = %s, want slot %d generation %d", c, a.id(), a.generation()+1)
	}
	if c.String() != "1.1" {
		t.Fatalf("String = %q, want %q", c.String(), "1.1")
	}
	if IsAlive(w, a) || !IsAlive(w, c) {
		t.Fatalf("IsAlive: stale=%v recycled=%v", IsAlive(w, a), IsAlive(w, c))
	}

	got := Entities(w)
	if len(got) != 2 || got[0] != c || got[1] != b {
		t.Fatalf("Entities = %v, want [%s %s]", got, c, b)
	}
}

func TestAddErrors(t *testing.T) {
	w := NewWorld()
	alive := CreateEntity(w)
	dead := CreateEntity(w)
	DestroyEntity(w, dead)

	cases := []struct {
		name string
		add  func() error
		want error
	}{
		{"ok", func() error { return Add(w, alive, positionKind, &position{}) }, nil},
		{"zero_kind", func() error { return Add(w, alive, component.ComponentKind[position]{}, &position{}) }, component.ErrInvalidComponentKind},
		{"nil_value", func() error { return Add[position](w, alive, positionKind, nil) }, component.ErrNilComponent},
		{"dead_entity", func() error { return Add(w, dead, positionKind, &position{}) }, component.ErrEntityNotAlive},
		{"never_created", func() error { return Add(w, Entity(99), positionKind, &position{}) }, component.ErrEntityNotAlive},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.add()
			if c.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestAddReplacesAndRemoveReports(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	if Remove(w, e, labelKind) {
		t.Fatalf("Remove on an empty store = true")
	}
	if err := Add(w, e, labelKind, labelPtr("crate")); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, labelKind, labelPtr("key")); err != nil {
		t.Fatal(err)
	}
	if l, ok := Get(w, e, labelKind); !ok || *l != "key" {
		t.Fatalf("Get = %v %v, want key", l, ok)
	}
	if !Remove(w, e, labelKind) {
		t.Fatalf("Remove = false for a present component")
	}
	if Remove(w, e, labelKind) || Has(w, e, labelKind) {
		t.Fatalf("component survived Remove")
	}
}

func TestKindsOfOneTypeAreDistinct(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()

	if err := Add(w, e, ka, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	if Has(w, e, kb) {
		t.Fatalf("a second int kind shares the first kind's store")
	}
	if ka.String() == kb.String() {
		t.Fatalf("kinds print the same: %s", ka)
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	if _, ok := First(w, frozenKind); ok {
		t.Fatalf("First on an empty world = true")
	}

	a := CreateEntity(w)
	b := CreateEntity(w)
	for _, e := range []Entity{a, b} {
		if err := Add(w, e, frozenKind, &frozen{}); err != nil {
			t.Fatal(err)
		}
	}
	if got, ok := First(w, frozenKind); !ok || got != a {
		t.Fatalf("First = %s %v, want %s", got, ok, a)
	}

	DestroyEntity(w, a)
	if got, ok := First(w, frozenKind); !ok || got != b {
		t.Fatalf("First after destroy = %s %v, want %s", got, ok, b)
	}
}

func TestForEachSkipsEntitiesDestroyedDuringWalk(t *testing.T) {
	w := NewWorld()
	var ents []Entity
	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		ents = append(ents, e)
		if err := Add(w, e, positionKind, &position{X: float64(i)}); err != nil {
			t.Fatal(err)
		}
	}

	var visited []Entity
	ForEach(w, positionKind, func(e Entity, p *position) {
		visited = append(visited, e)
		if e == ents[0] {
			DestroyEntity(w, ents[2])
		}
	})

	if len(visited) != 3 {
		t.Fatalf("visited %v, want 3 entities", visited)
	}
	for _, e := range visited {
		if e == ents[2] {
			t.Fatalf("visited destroyed entity %s", e)
		}
	}
}

func TestForEachIntersections(t *testing.T) {
	w := NewWorld()
	moving := CreateEntity(w)
	still := CreateEntity(w)
	named := CreateEntity(w)
	iced := CreateEntity(w)

	add := func(e Entity, p bool, v bool, l string, f bool) {
		t.Helper()
		if p {
			if err := Add(w, e, positionKind, &position{}); err != nil {
				t.Fatal(err)
			}
		}
		if v {
			if err := Add(w, e, velocityKind, &velocity{X: 1}); err != nil {
				t.Fatal(err)
			}
		}
		if l != "" {
			if err := Add(w, e, labelKind, labelPtr(l)); err != nil {
				t.Fatal(err)
			}
		}
		if f {
			if err := Add(w, e, frozenKind, &frozen{}); err != nil {
				t.Fatal(err)
			}
		}
	}
	add(moving, true, true, "", false)
	add(still, true, false, "", false)
	add(named, true, true, "orb", false)
	add(iced, true, true, "ice", true)

	cases := []struct {
		name string
		walk func() []Entity
		want []Entity
	}{
		{"two", func() (out []Entity) {
			ForEach2(w, positionKind, velocityKind, func(e Entity, _ *position, _ *velocity) { out = append(out, e) })
			return
		}, []Entity{moving, named, iced}},
		{"three", func() (out []Entity) {
			ForEach3(w, positionKind, velocityKind, labelKind, func(e Entity, _ *position, _ *velocity, _ *label) { out = append(out, e) })
			return
		}, []Entity{named, iced}},
		{"four", func() (out []Entity) {
			ForEach4(w, positionKind, velocityKind, labelKind, frozenKind, func(e Entity, _ *position, _ *velocity, _ *label, _ *frozen) { out = append(out, e) })
			return
		}, []Entity{iced}},
		{"missing_store", func() (out []Entity) {
			ForEach2(w, positionKind, component.NewComponentKind[float64](), func(e Entity, _ *position, _ *float64) { out = append(out, e) })
			return
		}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.walk()
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			seen := make(map[Entity]bool, len(got))
			for _, e := range got {
				seen[e] = true
			}
			for _, e := range c.want {
				if !seen[e] {
					t.Fatalf("got %v, missing %s", got, e)
				}
			}
		})
	}

	DestroyEntity(w, iced)
	var after []Entity
	ForEach4(w, positionKind, velocityKind, labelKind, frozenKind, func(e Entity, _ *position, _ *velocity, _ *label, _ *frozen) { after = append(after, e) })
	if len(after) != 0 {
		t.Fatalf("ForEach4 after destroy = %v", after)
	}
}

func TestForEachMutatesInPlace(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add(w, e, positionKind, &position{}); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, velocityKind, &velocity{X: 2, Y: -1}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		ForEach2(w, positionKind, velocityKind, func(_ Entity, p *position, v *velocity) {
			p.X += v.X
			p.Y += v.Y
		})
	}

	p, _ := Get(w, e, positionKind)
	if p.X != 6 || p.Y != -3 {
		t.Fatalf("position = %+v, want {6 -3}", *p)
	}
}
