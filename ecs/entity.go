package ecs

import "fmt"

// Entity is a generational handle: the low 32 bits are the slot id (from 1)
// and the high 32 bits count how often that slot was recycled. A handle to a
// destroyed entity never becomes alive again.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String prints the slot, plus the generation once the slot was recycled.
func (e Entity) String() string {
	if g := e.generation(); g != 0 {
		return fmt.Sprintf("%d.%d", e.id(), g)
	}
	return fmt.Sprintf("%d", e.id())
}

// Valid reports whether e can refer to an entity at all. Use IsAlive to
// check it against a World.
func (e Entity) Valid() bool {
	return e.id() != 0
}
