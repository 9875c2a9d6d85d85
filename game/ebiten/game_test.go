package ebiten

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/gridsnake/config"
	"github.com/plus3/gridsnake/ecs"
	"github.com/plus3/gridsnake/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessGame(t *testing.T, quit func() bool) *Game {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)

	world, entities := game.NewWorld(cfg, zerolog.Nop())
	dispatcher, err := game.NewDispatcher(world, cfg)
	require.NoError(t, err)

	return &Game{
		cfg:        cfg,
		logger:     zerolog.Nop(),
		world:      world,
		entities:   entities,
		dispatcher: dispatcher,
		renderer:   game.NewRenderer(world),
		quit:       quit,
	}
}

type recordingOverlay struct {
	calls []string
}

func (o *recordingOverlay) Begin()                   { o.calls = append(o.calls, "begin") }
func (o *recordingOverlay) End()                     { o.calls = append(o.calls, "end") }
func (o *recordingOverlay) Draw(*ebiten.Image)       { o.calls = append(o.calls, "draw") }
func (o *recordingOverlay) Layout(width, height int) { o.calls = append(o.calls, "layout") }

func TestGameUpdateSteps(t *testing.T) {

	g := newHeadlessGame(t, func() bool { return false })

	require.NoError(t, g.Update())
	require.NoError(t, g.Update())

	assert.Equal(t, uint64(2), g.Dispatcher().Tick())
	assert.Equal(t, game.Position{X: 2, Y: 0}, *ecs.ReadComponent[game.Position](g.World(), g.Entities().Snake))
}

func TestGameUpdateTerminatesOnQuit(t *testing.T) {

	g := newHeadlessGame(t, func() bool { return true })

	assert.ErrorIs(t, g.Update(), ebiten.Termination)
	assert.Equal(t, uint64(0), g.Dispatcher().Tick())
}

func TestGameUpdateBracketsOverlay(t *testing.T) {

	g := newHeadlessGame(t, func() bool { return false })
	overlay := &recordingOverlay{}
	g.overlay = overlay

	require.NoError(t, g.Update())
	width, height := g.Layout(1024, 768)

	assert.Equal(t, []string{"begin", "end", "layout"}, overlay.calls)
	assert.Equal(t, 400, width)
	assert.Equal(t, 400, height)
}

func TestNewFailsOnMissingSpriteSheet(t *testing.T) {

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Assets.SpriteSheet = "testdata/does-not-exist.png"

	_, err = New(cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.png")
}

func TestLoadSpriteSheetDecodesPNG(t *testing.T) {

	sheet, err := LoadSpriteSheet("../../assets/spritesheet.png")
	require.NoError(t, err)

	width, height := sheet.Bounds().Dx(), sheet.Bounds().Dy()
	assert.Equal(t, 2, width)
	assert.Equal(t, 2, height)
}
