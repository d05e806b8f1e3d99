package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/lumen/ecs/component"
)

func TestEventBusSubscribeAndPublish(t *testing.T) {
	w := NewWorld()
	owner := CreateEntity(w)
	bus := w.Bus()

	var got []string
	bus.Subscribe(owner, EventPickedUp, func(evt Event) { got = append(got, "pickup:"+evt.Type) })
	all := bus.Subscribe(owner, "", func(evt Event) { got = append(got, "all:"+evt.Type) })

	bus.Publish(Event{Type: EventPickedUp})
	bus.Publish(Event{Type: EventDropped})

	want := []string{"pickup:picked_up", "all:picked_up", "all:dropped"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, got[i], want[i])
		}
	}

	if !bus.Unsubscribe(all) {
		t.Fatalf("Unsubscribe should report true for a live subscription")
	}
	if bus.Unsubscribe(all) {
		t.Fatalf("Unsubscribe twice should report false")
	}
	got = nil
	bus.Publish(Event{Type: EventDropped})
	if len(got) != 0 {
		t.Fatalf("unsubscribed handler still called: %v", got)
	}
}

func TestEventBusDropsSubscriptionsWithOwner(t *testing.T) {
	w := NewWorld()
	a := CreateEntity(w)
	b := CreateEntity(w)

	calls := map[Entity]int{}
	w.Bus().Subscribe(a, EventPlaced, func(Event) { calls[a]++ })
	w.Bus().Subscribe(b, EventPlaced, func(Event) { calls[b]++ })

	DestroyEntity(w, a)
	w.Bus().Publish(Event{Type: EventPlaced, Data: ItemEvent{Item: b}})

	if calls[a] != 0 || calls[b] != 1 {
		t.Fatalf("calls = %v, want only b", calls)
	}
	if w.Bus().Len() != 1 {
		t.Fatalf("expected 1 subscription left, got %d", w.Bus().Len())
	}
}

func TestEventBusUnsubscribeDuringPublish(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	bus := w.Bus()

	count := 0
	var id SubscriptionID
	id = bus.Subscribe(e, "", func(Event) {
		count++
		bus.Unsubscribe(id)
	})

	bus.Publish(Event{Type: EventLit})
	bus.Publish(Event{Type: EventLit})
	if count != 1 {
		t.Fatalf("handler ran %d times, want 1", count)
	}
}

func TestEventQueueFlushedPerFrame(t *testing.T) {
	w := NewWorld()
	s := NewScheduler(10)

	seen := 0
	s.AddFrame(systemFunc(func(w *World) { seen += len(w.Events().Pending()) }))

	w.Events().Push(Event{Type: EventPlayerDied})
	s.Advance(w, 0)
	s.Advance(w, 0)
	if seen != 1 {
		t.Fatalf("queued event seen %d times, want 1", seen)
	}
}

func TestDestroyEntityClearsComponents(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()
	e := CreateEntity(w)
	if err := Add(w, e, h.Kind(), intPtr(4)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, e)

	reused := CreateEntity(w)
	if reused.id() != e.id() {
		t.Fatalf("expected id reuse, got %v and %v", reused, e)
	}
	if reused == e {
		t.Fatalf("reused entity must have a new generation")
	}
	if Has(w, reused, h.Kind()) {
		t.Fatalf("reused entity inherited a component")
	}
	if err := Add(w, e, h.Kind(), intPtr(1)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("Add on stale handle = %v, want ErrEntityNotAlive", err)
	}
	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("First found a component on a destroyed entity")
	}
}
