package ecs

import (
	"reflect"
	"slices"
	"strings"
	"unsafe"

	"github.com/kamstrup/intmap"
	"github.com/rs/zerolog"
)

// location is where an entity's components currently live
type location struct {
	archetype *Archetype
	row       uint32
}

// World owns every archetype, the entity allocator, and the singletons.
// A World is not safe for concurrent structural changes; the Dispatcher
// defers those through Commands.
type World struct {
	registry   *ComponentRegistry
	archetypes map[uint32]*Archetype
	ordered    []*Archetype
	locations  *intmap.Map[Entity, location]
	entities   entityAllocator
	singletons map[reflect.Type]*singletonEntry
	logger     zerolog.Logger
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger the world reports structural events to.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates an empty world over the given component registry
func NewWorld(registry *ComponentRegistry, opts ...WorldOption) *World {
	w := &World{
		registry:   registry,
		archetypes: make(map[uint32]*Archetype),
		locations:  intmap.New[Entity, location](256),
		singletons: make(map[reflect.Type]*singletonEntry),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the component registry backing the world
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Logger returns the world's logger
func (w *World) Logger() zerolog.Logger {
	return w.logger
}

// Spawn creates a new entity with the provided components.
// Components may be passed by value or by pointer; the value is copied.
func (w *World) Spawn(components ...any) Entity {
	types := extractComponentTypes(components)
	archetype := w.archetypeFor(types)

	entity := w.entities.allocate()
	row := archetype.insert(entity, components)
	w.locations.Put(entity, location{archetype: archetype, row: row})

	w.logger.Trace().Stringer("entity", entity).Stringer("archetype", archetype).Msg("spawned entity")
	return entity
}

// Destroy removes the entity and all of its components.
// It reports false if the entity was not alive.
func (w *World) Destroy(entity Entity) bool {
	loc, ok := w.locations.Get(entity)
	if !ok {
		return false
	}

	loc.archetype.remove(loc.row)
	w.locations.Del(entity)
	w.entities.release(entity)

	w.logger.Trace().Stringer("entity", entity).Msg("destroyed entity")
	return true
}

// Alive reports whether entity exists in the world
func (w *World) Alive(entity Entity) bool {
	_, ok := w.locations.Get(entity)
	return ok
}

// Len returns the number of live entities
func (w *World) Len() int {
	return w.locations.Len()
}

// Insert attaches component to entity, replacing any existing component of
// the same type. It reports false if the entity is not alive.
func (w *World) Insert(entity Entity, component any) bool {
	loc, ok := w.locations.Get(entity)
	if !ok {
		return false
	}

	compType := componentType(component)
	if compType == nil || !isComponentKind(compType.Kind()) {
		panic("components cannot be nil, pointers, maps, channels, or functions")
	}
	if idx, ok := loc.archetype.index[compType]; ok {
		return loc.archetype.columns[idx].Set(int(loc.row), component)
	}

	newTypes := make([]reflect.Type, 0, len(loc.archetype.types)+1)
	newTypes = append(newTypes, loc.archetype.types...)
	newTypes = append(newTypes, compType)
	sortTypes(newTypes)

	components := append(loc.archetype.components(loc.row), component)
	w.move(entity, loc, w.archetypeFor(newTypes), components)
	return true
}

// Remove detaches the component of the given type from entity. The entity
// stays alive even when it has no components left. It reports false if the
// entity is not alive or does not have the component.
func (w *World) Remove(entity Entity, compType reflect.Type) bool {
	loc, ok := w.locations.Get(entity)
	if !ok || !loc.archetype.HasComponent(compType) {
		return false
	}

	newTypes := make([]reflect.Type, 0, len(loc.archetype.types)-1)
	for _, typ := range loc.archetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	w.move(entity, loc, w.archetypeFor(newTypes), loc.archetype.components(loc.row))
	return true
}

func (w *World) move(entity Entity, from location, to *Archetype, components []any) {
	row := to.insert(entity, components)
	from.archetype.remove(from.row)
	w.locations.Put(entity, location{archetype: to, row: row})
}

// Get returns a pointer to the entity's component of the given type, or nil
func (w *World) Get(entity Entity, compType reflect.Type) any {
	loc, ok := w.locations.Get(entity)
	if !ok {
		return nil
	}
	return loc.archetype.component(loc.row, compType)
}

// Has checks if an entity has a specific component type
func (w *World) Has(entity Entity, compType reflect.Type) bool {
	loc, ok := w.locations.Get(entity)
	if !ok {
		return false
	}
	return loc.archetype.HasComponent(compType)
}

// Archetype returns the archetype currently holding the entity
func (w *World) Archetype(entity Entity) *Archetype {
	loc, ok := w.locations.Get(entity)
	if !ok {
		return nil
	}
	return loc.archetype
}

// Archetypes returns all archetypes in creation order
func (w *World) Archetypes() []*Archetype {
	return w.ordered
}

// Compact reclaims freed rows in every archetype. Entity identifiers are
// unaffected; pointers previously returned by Get are invalidated.
func (w *World) Compact() {
	for _, archetype := range w.ordered {
		archetype.compact(func(e Entity, row uint32) {
			w.locations.Put(e, location{archetype: archetype, row: row})
		})
	}
}

// archetypeFor returns the archetype for the sorted types, creating it when
// needed. Hash collisions between different type sets move on to the next id.
func (w *World) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypesToUint32(types)
	for {
		archetype, ok := w.archetypes[id]
		if !ok {
			archetype = newArchetype(id, types, w.registry)
			w.archetypes[id] = archetype
			w.ordered = append(w.ordered, archetype)
			w.logger.Debug().Uint32("id", id).Stringer("types", archetype).Msg("created archetype")
			return archetype
		}
		if archetype.sameTypes(types) {
			return archetype
		}
		id++
	}
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)
		if compType == nil || !isComponentKind(compType.Kind()) {
			panic("components cannot be nil, pointers, maps, channels, or functions")
		}
		if slices.Contains(types, compType) {
			panic("duplicate component type " + compType.String())
		}
		types = append(types, compType)
	}
	sortTypes(types)
	return types
}

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
}

// hashTypesToUint32 generates an FNV-1a hash over the runtime type pointers
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		ptr := interfaceData(&t)
		val := uint32(uintptr(ptr))
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uint64(uintptr(ptr)) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

// ifaceWords is the runtime layout of any interface value: a type or itab
// word followed by the data word.
type ifaceWords struct {
	tab  unsafe.Pointer
	data unsafe.Pointer
}

// interfaceData returns the data word of the interface stored at v
func interfaceData[I any](v *I) unsafe.Pointer {
	return (*ifaceWords)(unsafe.Pointer(v)).data
}

// ComponentReader is anything that can look up an entity's component by type
type ComponentReader interface {
	Get(Entity, reflect.Type) any
}

// ReadComponent returns a typed pointer to the entity's component, or nil
func ReadComponent[T any](reader ComponentReader, entity Entity) *T {
	comp, _ := reader.Get(entity, reflect.TypeFor[T]()).(*T)
	return comp
}
