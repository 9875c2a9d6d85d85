package ecs_test

import (
	"testing"

	"github.com/plus3/gridsnake/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	world := newTestWorld()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkSpawnWithMultipleComponents(b *testing.B) {
	world := newTestWorld()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Spawn(
			Position{X: 1.0, Y: 2.0},
			Velocity{DX: 0.5, DY: 0.5},
			Health{Current: 100, Max: 100},
			Name{Value: "Entity"},
		)
	}
}

func BenchmarkDestroy(b *testing.B) {
	world := newTestWorld()

	ids := make([]ecs.Entity, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = world.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Destroy(ids[i])
	}
}

func BenchmarkReadComponent(b *testing.B) {
	world := newTestWorld()
	id := world.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.ReadComponent[Position](world, id)
	}
}

func BenchmarkInsert(b *testing.B) {
	world := newTestWorld()

	ids := make([]ecs.Entity, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = world.Spawn(Position{X: 1.0, Y: 2.0})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Insert(ids[i], Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkRemove(b *testing.B) {
	world := newTestWorld()

	ids := make([]ecs.Entity, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = world.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		world.Remove(ids[i], typeOf[Velocity]())
	}
}

func BenchmarkViewIter(b *testing.B) {
	world := newTestWorld()
	for i := 0; i < 10000; i++ {
		world.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
	}
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](world)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for item := range view.Values() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func benchmarkDispatch(b *testing.B, parallel bool) {
	world := newTestWorld()
	for i := 0; i < 10000; i++ {
		world.Spawn(Position{}, Velocity{DX: 1}, Health{Current: i})
	}

	dispatcher, err := ecs.NewDispatcherBuilder(world).
		WithParallel(parallel).
		With(&MovementSystem{}, "movement").
		With(&HealthSystem{}, "health").
		Build()
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := dispatcher.Dispatch(1.0 / 60.0); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDispatchSequential(b *testing.B) {
	benchmarkDispatch(b, false)
}

func BenchmarkDispatchParallel(b *testing.B) {
	benchmarkDispatch(b, true)
}
