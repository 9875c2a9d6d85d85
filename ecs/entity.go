package ecs

import "fmt"

// Entity is an opaque, stable identifier. The lower 32 bits hold the slot
// index and the upper 32 bits hold the slot generation, so an identifier is
// never reused once its entity has been destroyed.
type Entity uint64

func newEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index returns the allocator slot of the entity
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation returns how many times the slot has been handed out
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.Index(), e.Generation())
}

// entityAllocator hands out entity identifiers. Freed slots are recycled with
// a bumped generation. Generations start at 1 so the zero Entity is never live.
type entityAllocator struct {
	generations []uint32
	free        []uint32
}

func (a *entityAllocator) allocate() Entity {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		return newEntity(index, a.generations[index])
	}

	index := uint32(len(a.generations))
	a.generations = append(a.generations, 1)
	return newEntity(index, 1)
}

func (a *entityAllocator) release(e Entity) {
	index := e.Index()
	if int(index) >= len(a.generations) || a.generations[index] != e.Generation() {
		return
	}
	a.generations[index]++
	if a.generations[index] == 0 {
		a.generations[index] = 1
	}
	a.free = append(a.free, index)
}
