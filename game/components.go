package game

import (
	"image"

	"github.com/plus3/gridsnake/ecs"
)

// Position is a cell on the grid
type Position struct {
	X, Y int
}

// Velocity is the cell offset applied every tick
type Velocity struct {
	X, Y int
}

// Lifetime counts the ticks an entity has left
type Lifetime struct {
	Remaining int
}

// Sprite is the clip of the sprite sheet drawn for an entity
type Sprite struct {
	Region image.Rectangle
}

// Grid is the board singleton shared by movement and rendering
type Grid struct {
	Size     int
	TileSize int
}

// Wrap maps any coordinate onto [0, Size)
func (g Grid) Wrap(v int) int {
	return ((v % g.Size) + g.Size) % g.Size
}

// RegisterComponents registers the demo's component types
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Sprite](registry)
}
