package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityType = reflect.TypeFor[Entity]()

// View is a join query over entities having a set of components.
// T must be a struct whose fields are pointers to component types, plus at
// most one Entity field that receives the matched entity. Embedded pointer
// fields are always required; named pointer fields can be marked optional
// with the `ecs:"optional"` struct tag and are nil when absent.
type View[T any] struct {
	world       *World
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	entityField int
}

// NewView creates a new view for the struct type T
func NewView[T any](world *World) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		world:       world,
		types:       make([]reflect.Type, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
		entityField: -1,
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityType {
			if v.entityField != -1 {
				panic("View struct may hold at most one Entity field")
			}
			v.entityField = int(field.Offset)
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or ecs.Entity")
		}

		isOptional := false
		if !field.Anonymous {
			if tag := field.Tag.Get("ecs"); tag != "" {
				if tag != "optional" {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
				isOptional = true
			}
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// Fill populates ptr with the entity's components. It returns false if the
// entity is not alive or lacks a required component.
func (v *View[T]) Fill(entity Entity, ptr *T) bool {
	loc, ok := v.world.locations.Get(entity)
	if !ok || !v.matchesArchetype(loc.archetype) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), loc.archetype, loc.row, entity, v.columnIndices(loc.archetype))
}

// Get returns a populated view struct for the entity, or nil
func (v *View[T]) Get(entity Entity) *T {
	var result T
	if !v.Fill(entity, &result) {
		return nil
	}
	return &result
}

// matchesArchetype checks if an archetype holds all required component types
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, requiredType := range v.types {
		if v.optional[i] {
			continue
		}
		if !archetype.HasComponent(requiredType) {
			return false
		}
	}
	return true
}

// columnIndices maps each view field to a column in the archetype, -1 if absent
func (v *View[T]) columnIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.types))
	for i, componentType := range v.types {
		if idx, ok := archetype.index[componentType]; ok {
			indices[i] = idx
		} else {
			indices[i] = -1
		}
	}
	return indices
}

func (v *View[T]) populate(resultPtr unsafe.Pointer, archetype *Archetype, row uint32, entity Entity, indices []int) bool {
	if v.entityField >= 0 {
		*(*Entity)(unsafe.Add(resultPtr, v.entityField)) = entity
	}

	for i, idx := range indices {
		fieldPtr := unsafe.Add(resultPtr, v.fieldOffset[i])

		if idx == -1 {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		component := archetype.columns[idx].Get(int(row))
		*(*unsafe.Pointer)(fieldPtr) = interfaceData(&component)
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		indices := v.columnIndices(archetype)

		var result T
		resultPtr := unsafe.Pointer(&result)

		for row, owner := range archetype.Iter() {
			if !v.populate(resultPtr, archetype, row, owner, indices) {
				continue
			}
			if !yield(owner, result) {
				return
			}
		}
	}
}

// Iter yields every matching entity with its populated view struct.
// Archetypes are visited in creation order, rows in ascending order.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for _, archetype := range v.world.ordered {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for entity, item := range v.iterArchetype(archetype) {
				if !yield(entity, item) {
					return
				}
			}
		}
	}
}

// Values yields only the populated view structs
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity from the non-nil component fields of data
func (v *View[T]) Spawn(data T) Entity {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i, componentType := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(componentType, componentPtr).Elem().Interface())
	}

	return v.world.Spawn(components...)
}
