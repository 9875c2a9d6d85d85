package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry holds one singleton value. value is a reflect.Value of *T
// whose address never changes once created.
type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// AddSingleton stores value as the world's singleton of its type. If one
// already exists it is overwritten in place, so outstanding pointers see the
// new value.
func (w *World) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	if entry, ok := w.singletons[t]; ok {
		entry.value.Elem().Set(v)
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	w.singletons[t] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

// ReadSingleton points *out at the singleton of type T, where out is a **T.
// It reports false if no such singleton exists.
func (w *World) ReadSingleton(out any) bool {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	entry := w.getSingletonEntry(rv.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	rv.Elem().Set(entry.value)
	return true
}

func (w *World) getSingletonEntry(t reflect.Type) *singletonEntry {
	return w.singletons[t]
}

// Singleton provides typed access to a single component instance that is
// not attached to any entity, such as the grid dimensions.
type Singleton[T any] struct {
	world        *World
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for the singleton of type T, creating it
// from initializer (or the zero value) when it does not exist yet.
func NewSingleton[T any](world *World, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if world.getSingletonEntry(t) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		world.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(world)
	return s
}

// Init binds the accessor to a world. Called by the Dispatcher for
// Singleton fields of registered systems.
func (s *Singleton[T]) Init(world *World) {
	s.world = world
	s.updateCache()
}

// Get returns a pointer to the singleton, or nil if it does not exist
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return (*T)(s.componentPtr)
}

// Exists reports whether the singleton has been added to the world
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.world == nil {
		return
	}
	if entry := s.world.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}
