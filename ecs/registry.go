package ecs

import "reflect"

// ComponentRegistry manages component type registration for a World.
// Each World holds its own registry pointer, so independent worlds can use
// different component sets. Registering after the World is created is fine
// as long as it happens before the first entity of that type is spawned.
type ComponentRegistry struct {
	factories map[reflect.Type]func() columnStorage
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() columnStorage),
	}
}

// RegisterComponent registers component type T with the registry.
// Components are value types: structs or named primitives.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if !isComponentKind(t.Kind()) {
		panic("component type " + t.String() + " must not be a pointer, map, channel, or function")
	}
	r.factories[t] = func() columnStorage {
		return &column[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) columnStorage {
	factory, ok := r.factories[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return factory()
}

func isComponentKind(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return false
	}
	return true
}
