package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

// Archetype stores every entity that has exactly one particular set of
// component types. Rows are stable until Compact; freed rows are reused.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	index   map[reflect.Type]int
	columns []columnStorage
	owners  []Entity
	free    []uint32
	count   int
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		index:   make(map[reflect.Type]int, len(types)),
		columns: make([]columnStorage, len(types)),
	}

	for idx, typ := range types {
		a.index[typ] = idx
		a.columns[idx] = registry.newColumn(typ)
	}

	return a
}

// insert places owner's components into a free row and returns it.
// Columns without a matching component receive the zero value.
func (a *Archetype) insert(owner Entity, components []any) uint32 {
	var row uint32
	if n := len(a.free); n > 0 {
		row = a.free[n-1]
		a.free = a.free[:n-1]
		a.owners[row] = owner
	} else {
		row = uint32(len(a.owners))
		a.owners = append(a.owners, owner)
	}

	filled := make([]bool, len(a.columns))
	for _, comp := range components {
		idx, ok := a.index[componentType(comp)]
		if !ok {
			continue
		}
		filled[idx] = a.columns[idx].Set(int(row), comp)
	}
	for idx, ok := range filled {
		if !ok {
			a.columns[idx].Zero(int(row))
		}
	}

	a.count++
	return row
}

// remove frees the row and zeroes its components
func (a *Archetype) remove(row uint32) {
	if int(row) >= len(a.owners) || a.owners[row] == 0 {
		return
	}

	for _, col := range a.columns {
		col.Zero(int(row))
	}
	a.owners[row] = 0
	a.free = append(a.free, row)
	a.count--
}

func (a *Archetype) component(row uint32, compType reflect.Type) any {
	idx, ok := a.index[compType]
	if !ok {
		return nil
	}
	return a.columns[idx].Get(int(row))
}

// components returns pointers to every component in the row, in column order
func (a *Archetype) components(row uint32) []any {
	out := make([]any, len(a.columns))
	for idx, col := range a.columns {
		out[idx] = col.Get(int(row))
	}
	return out
}

// compact moves live rows down over freed ones. relocate is called for every
// entity whose row changed.
func (a *Archetype) compact(relocate func(e Entity, row uint32)) {
	write := 0
	for read, owner := range a.owners {
		if owner == 0 {
			continue
		}
		if read != write {
			for _, col := range a.columns {
				col.Move(read, write)
			}
			a.owners[write] = owner
			relocate(owner, uint32(write))
		}
		write++
	}

	clear(a.owners[write:])
	a.owners = a.owners[:write]
	a.free = a.free[:0]
	for _, col := range a.columns {
		col.Truncate(write)
	}
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	_, ok := a.index[compType]
	return ok
}

// ID returns the archetype's identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types of the archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype
func (a *Archetype) Len() int {
	return a.count
}

// Capacity returns the number of rows currently allocated, live or free
func (a *Archetype) Capacity() int {
	return len(a.owners)
}

// Iter yields the row and owner of every live entity
func (a *Archetype) Iter() iter.Seq2[uint32, Entity] {
	return func(yield func(uint32, Entity) bool) {
		for row, owner := range a.owners {
			if owner == 0 {
				continue
			}
			if !yield(uint32(row), owner) {
				return
			}
		}
	}
}

func (a *Archetype) String() string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func (a *Archetype) sameTypes(types []reflect.Type) bool {
	return slices.Equal(a.types, types)
}
