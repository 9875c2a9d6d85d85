package ecs

import "reflect"

// Commands buffers structural changes made while systems run. The
// Dispatcher gives every system its own buffer and flushes them after the
// tick, so no system observes a half-applied change.
type Commands struct {
	spawns   [][]any
	destroys []Entity
	inserts  []insertCommand
	removes  []removeCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type insertCommand struct {
	entity    Entity
	component any
}

type removeCommand struct {
	entity   Entity
	compType reflect.Type
}

// Defer queues fn to run after all structural changes are applied
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues creation of an entity with the given components
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Destroy queues removal of the entity and all of its components
func (c *Commands) Destroy(entity Entity) {
	c.destroys = append(c.destroys, entity)
}

// Insert queues attaching a component to an entity
func (c *Commands) Insert(entity Entity, component any) {
	c.inserts = append(c.inserts, insertCommand{entity: entity, component: component})
}

// Remove queues detaching a component type from an entity
func (c *Commands) Remove(entity Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeCommand{entity: entity, compType: compType})
}

// Len returns the number of queued operations
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.destroys) + len(c.inserts) + len(c.removes) + len(c.defers)
}

// Flush applies the queued operations to the world and resets the buffer.
// Destroys run first; removes and inserts targeting a destroyed entity are
// dropped. Spawns follow, then deferred functions.
func (c *Commands) Flush(world *World) {
	for _, entity := range c.destroys {
		world.Destroy(entity)
	}

	for _, cmd := range c.removes {
		world.Remove(cmd.entity, cmd.compType)
	}

	for _, cmd := range c.inserts {
		world.Insert(cmd.entity, cmd.component)
	}

	for _, components := range c.spawns {
		world.Spawn(components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.Reset()
}

// Reset discards every queued operation
func (c *Commands) Reset() {
	clear(c.spawns)
	c.spawns = c.spawns[:0]
	c.destroys = c.destroys[:0]
	clear(c.inserts)
	c.inserts = c.inserts[:0]
	c.removes = c.removes[:0]
	clear(c.defers)
	c.defers = c.defers[:0]
}
