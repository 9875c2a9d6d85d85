package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/gridsnake/ecs"
)

// ExampleWorld demonstrates the basic entity lifecycle. Entities are stable
// identifiers; components can be attached and detached at any time and an
// identifier is never handed out again after its entity is destroyed.
func ExampleWorld() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	world := ecs.NewWorld(registry)

	player := world.Spawn(Position{X: 10, Y: 20})
	world.Insert(player, Velocity{DX: 1})

	pos := ecs.ReadComponent[Position](world, player)
	fmt.Printf("player at (%.0f, %.0f), moving: %v\n", pos.X, pos.Y, world.Has(player, reflect.TypeFor[Velocity]()))

	world.Remove(player, reflect.TypeFor[Velocity]())
	fmt.Println("moving:", world.Has(player, reflect.TypeFor[Velocity]()))

	world.Destroy(player)
	next := world.Spawn(Position{})
	fmt.Println("alive:", world.Alive(player), "reused:", next == player)

	// Output:
	// player at (10, 20), moving: true
	// moving: false
	// alive: false reused: false
}

// ExampleView demonstrates querying outside a system. Views iterate on
// demand and are handy for tools and one-off lookups.
func ExampleView() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Name](registry)
	world := ecs.NewWorld(registry)

	world.Spawn(Position{X: 1, Y: 1}, Name{Value: "scout"})
	world.Spawn(Position{X: 5, Y: 3})

	view := ecs.NewView[struct {
		*Position
		Name *Name `ecs:"optional"`
	}](world)

	for item := range view.Values() {
		name := "unnamed"
		if item.Name != nil {
			name = item.Name.Value
		}
		fmt.Printf("%s at (%.0f, %.0f)\n", name, item.Position.X, item.Position.Y)
	}

	// Output:
	// scout at (1, 1)
	// unnamed at (5, 3)
}

// ExampleSingleton demonstrates world-wide state that is not attached to
// any entity.
func ExampleSingleton() {
	world := ecs.NewWorld(ecs.NewComponentRegistry())

	type Board struct {
		Width, Height int
	}

	board := ecs.NewSingleton(world, Board{Width: 20, Height: 20})
	board.Get().Width = 32

	var read *Board
	world.ReadSingleton(&read)
	fmt.Println(read.Width, read.Height)

	// Output:
	// 32 20
}
