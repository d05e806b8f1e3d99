package ecs

import (
	"fmt"

	"github.com/milk9111/lumen/ecs/component"
)

// Add stores value as e's kind component, replacing any previous one.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add %s: %w", kind, component.ErrNilComponent)
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("add %s to entity %s: %w", kind, e, component.ErrEntityNotAlive)
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

// Remove deletes e's kind component and reports whether it had one.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).Remove(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e.id())
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).Get(e.id()).(*T)
	return v, ok
}

// First returns the first live entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(kind.ID(), false)
	for _, id := range s.snapshot() {
		if e, ok := w.entities.current(id); ok {
			return e, true
		}
	}
	return 0, false
}

func get[T any](w *World, id entityID, kind component.ComponentKind[T]) *T {
	v, _ := w.store(kind.ID(), false).Get(id).(*T)
	return v
}

// ForEach visits every entity holding kind. Components added or removed by
// fn during the walk do not change which entities are visited, but entities
// destroyed by fn are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	for _, id := range w.store(kind.ID(), false).snapshot() {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v := get(w, id, kind); v != nil {
			fn(e, v)
		}
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	for _, id := range intersect(w.store(ka.ID(), false), w.store(kb.ID(), false)) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, b := get(w, id, ka), get(w, id, kb)
		if a != nil && b != nil {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	for _, id := range intersect(w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false)) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, b, c := get(w, id, ka), get(w, id, kb), get(w, id, kc)
		if a != nil && b != nil && c != nil {
			fn(e, a, b, c)
		}
	}
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	if w == nil || fn == nil {
		return
	}
	for _, id := range intersect(w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false), w.store(kd.ID(), false)) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, b, c, d := get(w, id, ka), get(w, id, kb), get(w, id, kc), get(w, id, kd)
		if a != nil && b != nil && c != nil && d != nil {
			fn(e, a, b, c, d)
		}
	}
}
