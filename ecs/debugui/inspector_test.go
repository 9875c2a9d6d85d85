package debugui

import (
	"image"
	"reflect"
	"testing"

	"github.com/plus3/gridsnake/ecs"
	"github.com/plus3/gridsnake/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label struct {
	Text    string
	Visible bool
	Alpha   float32
	Layer   uint8
	note    string
}

func newInspectorWorld() *ecs.World {
	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	ecs.RegisterComponent[label](registry)
	return ecs.NewWorld(registry)
}

func TestInspectorEditsSnakeComponents(t *testing.T) {

	world := newInspectorWorld()
	snake := world.Spawn(
		game.Position{X: 1, Y: 2},
		game.Velocity{X: 1},
		game.Lifetime{Remaining: 5},
	)
	inspector := NewComponentInspector(world)

	assert.True(t, inspector.SetField(snake, reflect.TypeFor[game.Position](), []int{1}, int64(7)))
	assert.True(t, inspector.SetField(snake, reflect.TypeFor[game.Velocity](), []int{0}, int64(-1)))
	assert.True(t, inspector.SetField(snake, reflect.TypeFor[game.Lifetime](), []int{0}, int64(40)))

	assert.Equal(t, game.Position{X: 1, Y: 7}, *ecs.ReadComponent[game.Position](world, snake))
	assert.Equal(t, game.Velocity{X: -1}, *ecs.ReadComponent[game.Velocity](world, snake))
	assert.Equal(t, game.Lifetime{Remaining: 40}, *ecs.ReadComponent[game.Lifetime](world, snake))
}

func TestInspectorEditsNestedField(t *testing.T) {

	world := newInspectorWorld()
	marker := world.Spawn(game.Sprite{Region: image.Rect(0, 0, 1, 1)})
	inspector := NewComponentInspector(world)

	// Region.Max.X
	require.True(t, inspector.SetField(marker, reflect.TypeFor[game.Sprite](), []int{0, 1, 0}, int64(2)))

	assert.Equal(t, image.Rect(0, 0, 2, 1), ecs.ReadComponent[game.Sprite](world, marker).Region)
}

func TestInspectorEditsEveryKind(t *testing.T) {

	world := newInspectorWorld()
	entity := world.Spawn(label{})
	inspector := NewComponentInspector(world)
	labelType := reflect.TypeFor[label]()

	assert.True(t, inspector.SetField(entity, labelType, []int{0}, "head"))
	assert.True(t, inspector.SetField(entity, labelType, []int{1}, true))
	assert.True(t, inspector.SetField(entity, labelType, []int{2}, float64(0.5)))
	assert.True(t, inspector.SetField(entity, labelType, []int{3}, uint64(3)))

	assert.Equal(t, label{Text: "head", Visible: true, Alpha: 0.5, Layer: 3}, *ecs.ReadComponent[label](world, entity))
}

func TestInspectorRejectsInvalidEdits(t *testing.T) {

	world := newInspectorWorld()
	entity := world.Spawn(game.Position{X: 3}, label{Layer: 1})
	inspector := NewComponentInspector(world)
	positionType := reflect.TypeFor[game.Position]()
	labelType := reflect.TypeFor[label]()

	assert.False(t, inspector.SetField(entity, positionType, []int{0}, "three"), "kind mismatch")
	assert.False(t, inspector.SetField(entity, positionType, []int{2}, int64(1)), "field out of range")
	assert.False(t, inspector.SetField(entity, positionType, []int{0, 0}, int64(1)), "path through a scalar")
	assert.False(t, inspector.SetField(entity, labelType, []int{3}, uint64(300)), "overflow")
	assert.False(t, inspector.SetField(entity, labelType, []int{4}, "hidden"), "unexported")
	assert.False(t, inspector.SetField(entity, reflect.TypeFor[game.Lifetime](), []int{0}, int64(1)), "missing component")

	assert.Equal(t, game.Position{X: 3}, *ecs.ReadComponent[game.Position](world, entity))
	assert.Equal(t, label{Layer: 1}, *ecs.ReadComponent[label](world, entity))

	require.True(t, world.Destroy(entity))
	assert.False(t, inspector.SetField(entity, positionType, []int{0}, int64(1)), "dead entity")
}

func TestFieldCacheSkipsUnexported(t *testing.T) {

	cache := newFieldCache()

	fields := cache.get(reflect.TypeFor[label]())
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"Text", "Visible", "Alpha", "Layer"}, names)
	assert.Equal(t, []int{3}, fields[3].Path)
	assert.Empty(t, cache.get(reflect.TypeFor[int]()))
}
