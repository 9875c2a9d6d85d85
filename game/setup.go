package game

import (
	"image"

	"github.com/plus3/gridsnake/config"
	"github.com/plus3/gridsnake/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const (
	MovementSystemName = "movement"
	LifetimeSystemName = "lifetime"
	TraceSystemName    = "trace"
)

// Entities are the identifiers of the entities created at startup
type Entities struct {
	Snake  ecs.Entity
	Marker ecs.Entity
}

// NewWorld builds the world with the grid singleton and the two starting
// entities: a moving snake head with a lifetime and a stationary marker.
func NewWorld(cfg *config.Config, logger zerolog.Logger) (*ecs.World, Entities) {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)

	world := ecs.NewWorld(registry, ecs.WithLogger(logger))
	ecs.NewSingleton(world, Grid{
		Size:     cfg.Grid.Size,
		TileSize: cfg.Grid.TileSize,
	})

	entities := Entities{
		Snake: world.Spawn(
			Position{X: 0, Y: 0},
			Velocity{X: 1, Y: 0},
			Lifetime{Remaining: cfg.Snake.Lifetime},
			Sprite{Region: image.Rect(0, 0, 1, 1)},
		),
		// No Velocity, so the movement system never touches it
		Marker: world.Spawn(
			Position{X: 2, Y: 0},
			Sprite{Region: image.Rect(0, 1, 1, 2)},
		),
	}

	return world, entities
}

// DispatcherOption adds systems or settings to the demo dispatcher
type DispatcherOption func(*ecs.DispatcherBuilder)

// WithTrace logs every position after movement
func WithTrace() DispatcherOption {
	return func(b *ecs.DispatcherBuilder) {
		b.With(&TraceSystem{}, TraceSystemName, MovementSystemName)
	}
}

// WithSystem registers an extra system
func WithSystem(system ecs.System, name string, deps ...string) DispatcherOption {
	return func(b *ecs.DispatcherBuilder) {
		b.With(system, name, deps...)
	}
}

// NewDispatcher registers the movement and lifetime systems. They share no
// storage, so they form a single parallel batch when parallel dispatch is on.
func NewDispatcher(world *ecs.World, cfg *config.Config, opts ...DispatcherOption) (*ecs.Dispatcher, error) {
	builder := ecs.NewDispatcherBuilder(world).
		WithParallel(cfg.Dispatch.Parallel).
		With(&MovementSystem{}, MovementSystemName).
		With(&LifetimeSystem{}, LifetimeSystemName)

	for _, opt := range opts {
		opt(builder)
	}

	dispatcher, err := builder.Build()
	if err != nil {
		return nil, eris.Wrap(err, "failed to build dispatcher")
	}
	return dispatcher, nil
}
