package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/gridsnake/config"
	"github.com/plus3/gridsnake/ecs"
	"github.com/plus3/gridsnake/game"
	"github.com/rs/zerolog"
)

const (
	gridSize       = 256
	maxLifetime    = 120
	respawnSystem  = "respawn"
	profileCPU     = "cpu"
	profileMemory  = "mem"
	profileDisable = ""
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The number of live entities to maintain.")
	parallel := flag.Bool("parallel", false, "Run non-conflicting systems concurrently.")
	csvPath := flag.String("csv", "", "Write per-system timings to this CSV file.")
	profileMode := flag.String("profile", profileDisable, "Capture a profile in the working directory: cpu or mem.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	if stop := startProfile(*profileMode, logger); stop != nil {
		defer stop()
	}

	logger.Info().Msg("Starting ECS stress test...")

	cfg, err := config.Default()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load defaults")
	}
	cfg.Grid.Size = gridSize
	cfg.Dispatch.Parallel = *parallel

	// 1. Setup world and dispatcher
	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	world := ecs.NewWorld(registry)
	ecs.NewSingleton(world, game.Grid{Size: cfg.Grid.Size, TileSize: cfg.Grid.TileSize})

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dispatcher, err := game.NewDispatcher(world, cfg,
		game.WithSystem(&RespawnSystem{Target: *entityCount, Rand: rng}, respawnSystem, game.LifetimeSystemName),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dispatcher")
	}

	// 2. Populate the world
	logger.Info().Int("entities", *entityCount).Msg("Populating world...")
	for i := 0; i < *entityCount; i++ {
		world.Spawn(randomEntity(rng)...)
	}
	logger.Info().Msg("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Systems:        len(dispatcher.SystemNames()),
		Parallel:       *parallel,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", *duration).Bool("parallel", *parallel).Msg("Running simulation...")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := dispatcher.Dispatch(deltaTime.Seconds()); err != nil {
				logger.Fatal().Err(err).Msg("dispatch failed")
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.SystemStats = dispatcher.Stats().Systems
	report.World = world.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().Int64("updates", totalUpdates).Msg("Simulation finished.")

	if *csvPath != "" {
		if err := WriteSystemCSV(*csvPath, report.SystemStats); err != nil {
			logger.Fatal().Err(err).Msg("failed to write csv")
		}
		logger.Info().Str("path", *csvPath).Msg("Wrote system timings.")
	}

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	logger.Info().Msg("Stress test complete.")
}

func startProfile(mode string, logger zerolog.Logger) func() {
	var p interface{ Stop() }
	switch mode {
	case profileDisable:
		return nil
	case profileCPU:
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	case profileMemory:
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	default:
		logger.Fatal().Str("profile", mode).Msg("unknown profile mode")
	}
	logger.Info().Str("profile", mode).Msg("profiling enabled")
	return p.Stop
}

// randomEntity builds the components of a snake segment somewhere on the grid.
// A quarter of the entities are stationary markers without velocity.
func randomEntity(rng *rand.Rand) []any {
	components := []any{
		game.Position{X: rng.Intn(gridSize), Y: rng.Intn(gridSize)},
		game.Lifetime{Remaining: rng.Intn(maxLifetime)},
		game.Sprite{Region: image.Rect(0, 0, 1, 1)},
	}
	if rng.Intn(4) != 0 {
		components = append(components, game.Velocity{X: rng.Intn(3) - 1, Y: rng.Intn(3) - 1})
	}
	return components
}

// RespawnSystem tops the population back up to Target. Destruction lands
// after the tick, so the count it sees lags one tick behind.
type RespawnSystem struct {
	Target int
	Rand   *rand.Rand
}

func (s *RespawnSystem) Execute(frame *ecs.UpdateFrame) error {
	for i := frame.World.Len(); i < s.Target; i++ {
		frame.Commands.Spawn(randomEntity(s.Rand)...)
	}
	return nil
}
