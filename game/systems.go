package game

import (
	"reflect"

	"github.com/plus3/gridsnake/ecs"
	"github.com/rotisserie/eris"
)

var ErrNoGrid = eris.New("grid singleton missing or empty")

// MovementSystem moves every entity by its velocity, wrapping at the grid edges
type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	Grid ecs.Singleton[Grid]
}

func (s *MovementSystem) Access() ecs.Access {
	return ecs.Access{
		Reads:  []reflect.Type{reflect.TypeFor[Velocity](), reflect.TypeFor[Grid]()},
		Writes: []reflect.Type{reflect.TypeFor[Position]()},
	}
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) error {
	grid := s.Grid.Get()
	if grid == nil || grid.Size <= 0 {
		return ErrNoGrid
	}

	for entity := range s.Entities.Values() {
		entity.Position.X = grid.Wrap(entity.Position.X + entity.Velocity.X)
		entity.Position.Y = grid.Wrap(entity.Position.Y + entity.Velocity.Y)
	}
	return nil
}

// LifetimeSystem counts lifetimes down and destroys entities whose counter
// is already at zero. Destruction is queued and applied after the tick.
type LifetimeSystem struct {
	Entities ecs.Query[struct {
		ecs.Entity
		*Lifetime
	}]
}

func (s *LifetimeSystem) Access() ecs.Access {
	return ecs.Access{
		Writes: []reflect.Type{reflect.TypeFor[Lifetime]()},
	}
}

func (s *LifetimeSystem) Execute(frame *ecs.UpdateFrame) error {
	for entity := range s.Entities.Values() {
		if entity.Lifetime.Remaining > 0 {
			entity.Lifetime.Remaining--
			continue
		}

		frame.Commands.Destroy(entity.Entity)
		frame.Logger.Debug().Stringer("entity", entity.Entity).Uint64("tick", frame.Tick).Msg("lifetime expired")
	}
	return nil
}

// TraceSystem logs every entity's position at debug level
type TraceSystem struct {
	Entities ecs.Query[struct {
		ecs.Entity
		*Position
	}]
}

func (s *TraceSystem) Access() ecs.Access {
	return ecs.Access{
		Reads: []reflect.Type{reflect.TypeFor[Position]()},
	}
}

func (s *TraceSystem) Execute(frame *ecs.UpdateFrame) error {
	for entity := range s.Entities.Values() {
		frame.Logger.Debug().
			Stringer("entity", entity.Entity).
			Int("x", entity.Position.X).
			Int("y", entity.Position.Y).
			Uint64("tick", frame.Tick).
			Msg("position")
	}
	return nil
}
