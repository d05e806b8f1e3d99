package ecs

import (
	"github.com/milk9111/lumen/ecs/component"
	"go.uber.org/zap"
)

// World owns entities, their components, the event bus and running tasks.
// Systems are driven by a Scheduler.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
	bus      EventBus
	tasks    TaskRunner
	clock    Clock
	logger   *zap.Logger
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores: make(map[component.ComponentID]*SparseSet),
		logger: zap.NewNop(),
	}
}

// SetLogger replaces the world logger. Nil restores the no-op logger.
func (w *World) SetLogger(l *zap.Logger) {
	if w == nil {
		return
	}
	if l == nil {
		l = zap.NewNop()
	}
	w.logger = l
}

// Logger returns the world logger; never nil.
func (w *World) Logger() *zap.Logger {
	if w == nil || w.logger == nil {
		return zap.NewNop()
	}
	return w.logger
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// Events returns the per-frame event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Bus returns the subscription based event bus.
func (w *World) Bus() *EventBus {
	if w == nil {
		return nil
	}
	return &w.bus
}

// Tasks returns the world's task runner.
func (w *World) Tasks() *TaskRunner {
	if w == nil {
		return nil
	}
	return &w.tasks
}

// Clock returns the simulation clock maintained by the Scheduler.
func (w *World) Clock() *Clock {
	if w == nil {
		return nil
	}
	return &w.clock
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e, drops its subscriptions and
// cancels its tasks. It reports false for dead handles.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	w.bus.dropOwner(e)
	w.tasks.CancelOwner(e)
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity in id order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}
