package game

import (
	"image"
	"slices"

	"github.com/plus3/gridsnake/ecs"
)

// DrawCall is one sprite blit in screen space
type DrawCall struct {
	Entity ecs.Entity
	Clip   image.Rectangle
	X, Y   float64
	Scale  float64
}

type drawable struct {
	ecs.Entity
	*Position
	*Sprite
}

// Renderer turns Position and Sprite components into draw calls
type Renderer struct {
	view  *ecs.View[drawable]
	grid  *ecs.Singleton[Grid]
	calls []DrawCall
}

func NewRenderer(world *ecs.World) *Renderer {
	grid := &ecs.Singleton[Grid]{}
	grid.Init(world)
	return &Renderer{
		view: ecs.NewView[drawable](world),
		grid: grid,
	}
}

// Plan computes the draw calls for the current world state, ordered by
// entity. Each sprite is placed at grid position × tile size and scaled to
// one pixel less than a tile, leaving a gap between neighbours.
func (r *Renderer) Plan() []DrawCall {
	r.calls = r.calls[:0]

	grid := r.grid.Get()
	if grid == nil || grid.TileSize <= 0 {
		return r.calls
	}
	scale := float64(grid.TileSize - 1)

	for entity := range r.view.Values() {
		r.calls = append(r.calls, DrawCall{
			Entity: entity.Entity,
			Clip:   entity.Sprite.Region,
			X:      float64(entity.Position.X * grid.TileSize),
			Y:      float64(entity.Position.Y * grid.TileSize),
			Scale:  scale,
		})
	}

	slices.SortFunc(r.calls, func(a, b DrawCall) int {
		switch {
		case a.Entity < b.Entity:
			return -1
		case a.Entity > b.Entity:
			return 1
		}
		return 0
	})
	return r.calls
}
