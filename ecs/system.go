package ecs

import (
	"reflect"
	"slices"
)

// System represents a behavior that operates on entities with specific components.
// Systems are usually structs holding Query and Singleton fields, which the
// Dispatcher binds to its world, plus any state that persists between ticks.
// A returned error aborts the tick.
type System interface {
	Execute(frame *UpdateFrame) error
}

// SystemFunc adapts a plain function to the System interface
type SystemFunc func(frame *UpdateFrame) error

func (f SystemFunc) Execute(frame *UpdateFrame) error {
	return f(frame)
}

// AccessDeclarer is implemented by systems that declare the component types
// they read and write. Only declaring systems can share a parallel batch.
type AccessDeclarer interface {
	Access() Access
}

// Access lists the storages a system borrows shared (Reads) or exclusively (Writes).
type Access struct {
	Reads  []reflect.Type
	Writes []reflect.Type
}

// conflicts reports whether two systems may not run at the same time:
// either one writes a storage the other touches.
func (a Access) conflicts(b Access) bool {
	for _, t := range a.Writes {
		if slices.Contains(b.Writes, t) || slices.Contains(b.Reads, t) {
			return true
		}
	}
	for _, t := range b.Writes {
		if slices.Contains(a.Reads, t) {
			return true
		}
	}
	return false
}
