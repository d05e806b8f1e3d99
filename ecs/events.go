package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// Gameplay event types.
const (
	EventPickedUp   = "picked_up"
	EventDropped    = "dropped"
	EventPlaced     = "placed"
	EventReleased   = "released"
	EventPlayerDied = "player_died"
	EventLit        = "lit"
)

// ItemEvent is the payload of pickup, drop and placement events.
type ItemEvent struct {
	Item   Entity
	Holder Entity
	// Slot is set for EventPlaced and EventReleased.
	Slot Entity
}

// EventQueue is a simple FIFO queue, drained by the Scheduler at the end of
// every frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Pending returns queued events without clearing them.
func (q *EventQueue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}

// SubscriptionID identifies one EventBus subscription.
type SubscriptionID uint64

type subscription struct {
	id    SubscriptionID
	owner Entity
	kind  string
	fn    func(Event)
}

// EventBus dispatches events synchronously to subscribers. Every
// subscription has an owner entity and is dropped when that entity is
// destroyed.
type EventBus struct {
	next SubscriptionID
	subs []subscription
}

// Subscribe registers fn for events of kind; an empty kind receives every
// event.
func (b *EventBus) Subscribe(owner Entity, kind string, fn func(Event)) SubscriptionID {
	if b == nil || fn == nil {
		return 0
	}
	b.next++
	b.subs = append(b.subs, subscription{id: b.next, owner: owner, kind: kind, fn: fn})
	return b.next
}

// Unsubscribe removes one subscription and reports whether it existed.
func (b *EventBus) Unsubscribe(id SubscriptionID) bool {
	if b == nil {
		return false
	}
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers evt to every matching subscriber in subscription order.
// Subscriptions added or removed by a handler take effect for the next
// event.
func (b *EventBus) Publish(evt Event) {
	if b == nil {
		return
	}
	subs := append([]subscription(nil), b.subs...)
	for _, s := range subs {
		if s.kind == "" || s.kind == evt.Type {
			s.fn(evt)
		}
	}
}

// Len is the number of live subscriptions.
func (b *EventBus) Len() int {
	if b == nil {
		return 0
	}
	return len(b.subs)
}

func (b *EventBus) dropOwner(owner Entity) {
	kept := b.subs[:0]
	for _, s := range b.subs {
		if s.owner != owner {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(b.subs); i++ {
		b.subs[i] = subscription{}
	}
	b.subs = kept
}
