// Package ebiten runs the grid demo inside an Ebiten window.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/gridsnake/config"
	"github.com/plus3/gridsnake/ecs"
	"github.com/plus3/gridsnake/game"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Overlay draws a debug layer on top of the game, bracketing each update
type Overlay interface {
	Begin()
	End()
	Draw(screen *ebiten.Image)
	Layout(outsideWidth, outsideHeight int)
}

// Game adapts the world and dispatcher to ebiten.Game
type Game struct {
	cfg        *config.Config
	logger     zerolog.Logger
	world      *ecs.World
	entities   game.Entities
	dispatcher *ecs.Dispatcher
	renderer   *game.Renderer
	sheet      *ebiten.Image
	overlay    Overlay
	quit       func() bool
}

// Option configures a Game
type Option func(*gameOptions)

type gameOptions struct {
	overlay    Overlay
	dispatch   []game.DispatcherOption
	worldHooks []func(*ecs.World, *ecs.DispatcherBuilder)
	sheet      *ebiten.Image
	quit       func() bool
}

// WithOverlay draws overlay after the grid every frame
func WithOverlay(overlay Overlay) Option {
	return func(o *gameOptions) {
		o.overlay = overlay
	}
}

// WithDispatcherOptions forwards options to game.NewDispatcher
func WithDispatcherOptions(opts ...game.DispatcherOption) Option {
	return func(o *gameOptions) {
		o.dispatch = append(o.dispatch, opts...)
	}
}

// WithWorldHook runs fn once the world exists, before the dispatcher is
// built, so callers can spawn extra entities and register systems.
func WithWorldHook(fn func(*ecs.World, *ecs.DispatcherBuilder)) Option {
	return func(o *gameOptions) {
		o.worldHooks = append(o.worldHooks, fn)
	}
}

// WithSpriteSheet uses an already loaded sheet instead of reading the
// configured asset path
func WithSpriteSheet(sheet *ebiten.Image) Option {
	return func(o *gameOptions) {
		o.sheet = sheet
	}
}

// WithQuit replaces the Escape key check that ends the game
func WithQuit(fn func() bool) Option {
	return func(o *gameOptions) {
		o.quit = fn
	}
}

// New builds the world, dispatcher and renderer. The sprite sheet is loaded
// here so a missing asset fails before the window opens.
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) (*Game, error) {
	options := gameOptions{
		quit: func() bool { return inpututil.IsKeyJustPressed(ebiten.KeyEscape) },
	}
	for _, opt := range opts {
		opt(&options)
	}

	sheet := options.sheet
	if sheet == nil {
		var err error
		sheet, err = LoadSpriteSheet(cfg.Assets.SpriteSheet)
		if err != nil {
			return nil, err
		}
	}

	world, entities := game.NewWorld(cfg, logger)

	dispatchOpts := options.dispatch
	for _, hook := range options.worldHooks {
		dispatchOpts = append(dispatchOpts, func(b *ecs.DispatcherBuilder) {
			hook(world, b)
		})
	}

	dispatcher, err := game.NewDispatcher(world, cfg, dispatchOpts...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Stringer("snake", entities.Snake).
		Stringer("marker", entities.Marker).
		Strs("systems", dispatcher.SystemNames()).
		Msg("world ready")

	return &Game{
		cfg:        cfg,
		logger:     logger,
		world:      world,
		entities:   entities,
		dispatcher: dispatcher,
		renderer:   game.NewRenderer(world),
		sheet:      sheet,
		overlay:    options.overlay,
		quit:       options.quit,
	}, nil
}

func (g *Game) World() *ecs.World {
	return g.world
}

func (g *Game) Dispatcher() *ecs.Dispatcher {
	return g.dispatcher
}

func (g *Game) Entities() game.Entities {
	return g.entities
}

// Step advances the simulation by one fixed tick
func (g *Game) Step() error {
	return g.dispatcher.Dispatch(g.cfg.Timestep().Seconds())
}

func (g *Game) Update() error {
	if g.quit != nil && g.quit() {
		g.logger.Info().Uint64("tick", g.dispatcher.Tick()).Msg("quit requested")
		return ebiten.Termination
	}

	if g.overlay != nil {
		g.overlay.Begin()
		defer g.overlay.End()
	}

	if err := g.Step(); err != nil {
		g.logger.Error().Err(err).Msg("tick failed")
		return err
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	Draw(screen, g.sheet, g.renderer.Plan())
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	size := g.cfg.WindowSize()
	return size, size
}

// Run opens the window and blocks until it is closed or Escape is pressed
func Run(g *Game) error {
	size := g.cfg.WindowSize()
	ebiten.SetWindowTitle(g.cfg.Window.Title)
	ebiten.SetWindowSize(size, size)
	ebiten.SetTPS(g.cfg.Window.TPS)

	if err := ebiten.RunGame(g); err != nil {
		return eris.Wrap(err, "game loop failed")
	}
	return nil
}
