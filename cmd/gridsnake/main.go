package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/plus3/gridsnake/config"
	"github.com/plus3/gridsnake/ecs"
	"github.com/plus3/gridsnake/ecs/debugui"
	debugui_ebiten "github.com/plus3/gridsnake/ecs/debugui/ebiten"
	"github.com/plus3/gridsnake/game"
	game_ebiten "github.com/plus3/gridsnake/game/ebiten"
	"github.com/rs/zerolog"
)

const (
	imguiSystemName = "imgui"
	statsHistory    = 120
)

func main() {
	configPath := flag.String("config", "", "YAML file overriding the embedded defaults.")
	headless := flag.Bool("headless", false, "Run the simulation without a window.")
	ticks := flag.Uint64("ticks", 0, "Stop after this many ticks in headless mode (0 runs until interrupted).")
	logLevel := flag.String("log-level", "", "Log level (trace, debug, info, warn, error); overrides the config.")
	debugUI := flag.Bool("debug-ui", false, "Show the Dear ImGui debug overlay.")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		logger.Fatal().Err(err).Str("level", level).Msg("invalid log level")
	}
	logger = logger.Level(parsed)

	if *headless {
		runHeadless(cfg, logger, *ticks)
		return
	}

	var opts []game_ebiten.Option
	if *debugUI {
		size := cfg.WindowSize()
		opts = append(opts,
			game_ebiten.WithOverlay(debugui_ebiten.NewOverlay(cfg.Window.Title, size, size)),
			game_ebiten.WithWorldHook(func(world *ecs.World, builder *ecs.DispatcherBuilder) {
				debugui.RegisterComponents(world.Registry())
				ecs.NewSingleton[debugui.ImguiInputState](world)
				builder.With(&debugui.ImguiSystem{}, imguiSystemName)
			}),
		)
	}

	g, err := game_ebiten.New(cfg, logger, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create game")
	}

	if *debugUI {
		world := g.World()
		world.Spawn(debugui.NewStatsWindow(world, g.Dispatcher(), statsHistory).Item())
		world.Spawn(debugui.NewEntityBrowser(world).Item())
	}

	if err := game_ebiten.Run(g); err != nil {
		logger.Fatal().Err(err).Msg("game exited with an error")
	}
	logger.Info().Msg("bye")
}

func runHeadless(cfg *config.Config, logger zerolog.Logger, ticks uint64) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	world, entities := game.NewWorld(cfg, logger)
	logger.Info().
		Stringer("snake", entities.Snake).
		Stringer("marker", entities.Marker).
		Uint64("ticks", ticks).
		Msg("running headless")

	dispatcher, err := game.RunHeadless(ctx, world, cfg, ticks, game.WithTrace())
	if err != nil {
		logger.Fatal().Err(err).Msg("simulation failed")
	}

	for _, s := range dispatcher.Stats().Systems {
		logger.Info().
			Str("system", s.Name).
			Int64("runs", s.ExecutionCount).
			Dur("avg", s.AvgDuration).
			Msg("system stats")
	}
	logger.Info().Uint64("ticks", dispatcher.Tick()).Int("entities", world.Len()).Msg("done")
}
