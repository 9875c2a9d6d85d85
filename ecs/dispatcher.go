package ecs

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrDuplicateSystem = eris.New("duplicate system name")
	ErrUnknownSystem   = eris.New("unknown system dependency")
	ErrDependencyCycle = eris.New("system dependency cycle")
)

// DispatcherStats provides statistics about dispatcher execution.
type DispatcherStats struct {
	Ticks           uint64
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type worldBinder interface {
	Init(world *World)
}

type queryExecutor interface {
	Execute()
}

type systemEntry struct {
	name     string
	system   System
	deps     []string
	access   *Access
	queries  []queryExecutor
	commands *Commands
	logger   zerolog.Logger
	stats    systemStatsInternal
}

// DispatcherBuilder collects named systems and their predecessors.
type DispatcherBuilder struct {
	world    *World
	entries  []*systemEntry
	parallel bool
	logger   zerolog.Logger
}

// NewDispatcherBuilder starts a dispatcher for the given world
func NewDispatcherBuilder(world *World) *DispatcherBuilder {
	return &DispatcherBuilder{
		world:  world,
		logger: world.Logger(),
	}
}

// With registers a system under name, to run after every system in deps.
// An empty name falls back to the system's type name.
func (b *DispatcherBuilder) With(system System, name string, deps ...string) *DispatcherBuilder {
	if name == "" {
		name = systemTypeName(system)
	}
	b.entries = append(b.entries, &systemEntry{
		name:   name,
		system: system,
		deps:   deps,
	})
	return b
}

// WithParallel lets systems in the same batch run on separate goroutines
func (b *DispatcherBuilder) WithParallel(parallel bool) *DispatcherBuilder {
	b.parallel = parallel
	return b
}

// WithLogger overrides the logger inherited from the world
func (b *DispatcherBuilder) WithLogger(logger zerolog.Logger) *DispatcherBuilder {
	b.logger = logger
	return b
}

// Build validates the dependency graph and binds every system's Query and
// Singleton fields to the world.
func (b *DispatcherBuilder) Build() (*Dispatcher, error) {
	byName := make(map[string]*systemEntry, len(b.entries))
	for _, entry := range b.entries {
		if _, ok := byName[entry.name]; ok {
			return nil, eris.Wrapf(ErrDuplicateSystem, "system %q", entry.name)
		}
		byName[entry.name] = entry
	}
	for _, entry := range b.entries {
		for _, dep := range entry.deps {
			if _, ok := byName[dep]; !ok {
				return nil, eris.Wrapf(ErrUnknownSystem, "system %q depends on %q", entry.name, dep)
			}
		}
	}

	stages, err := topologicalStages(b.entries)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		world:    b.world,
		entries:  b.entries,
		parallel: b.parallel,
		logger:   b.logger,
	}

	for _, entry := range b.entries {
		entry.commands = newCommands()
		entry.logger = b.logger.With().Str("system", entry.name).Logger()
		entry.stats.minDuration = time.Duration(1<<63 - 1)
		entry.queries = bindFields(entry.system, b.world)
		if declarer, ok := entry.system.(AccessDeclarer); ok {
			access := declarer.Access()
			entry.access = &access
		}
	}

	for _, stage := range stages {
		d.stages = append(d.stages, batchStage(stage))
	}

	b.logger.Debug().
		Int("systems", len(b.entries)).
		Int("stages", len(d.stages)).
		Bool("parallel", b.parallel).
		Msg("dispatcher built")

	return d, nil
}

// topologicalStages layers systems with Kahn's algorithm. Each stage holds
// the systems whose predecessors all ran in earlier stages, in registration order.
func topologicalStages(entries []*systemEntry) ([][]*systemEntry, error) {
	remaining := make(map[string]int, len(entries))
	dependents := make(map[string][]string, len(entries))
	for _, entry := range entries {
		remaining[entry.name] = len(entry.deps)
		for _, dep := range entry.deps {
			dependents[dep] = append(dependents[dep], entry.name)
		}
	}

	var stages [][]*systemEntry
	placed := 0
	for placed < len(entries) {
		var stage []*systemEntry
		for _, entry := range entries {
			if remaining[entry.name] == 0 {
				stage = append(stage, entry)
			}
		}

		if len(stage) == 0 {
			var stuck []string
			for _, entry := range entries {
				if remaining[entry.name] > 0 {
					stuck = append(stuck, entry.name)
				}
			}
			return nil, eris.Wrapf(ErrDependencyCycle, "between %s", strings.Join(stuck, ", "))
		}

		for _, entry := range stage {
			remaining[entry.name] = -1
			for _, dependent := range dependents[entry.name] {
				remaining[dependent]--
			}
		}

		placed += len(stage)
		stages = append(stages, stage)
	}

	return stages, nil
}

// batchStage splits a stage into batches of systems that may run together.
// A system without declared access always gets a batch of its own.
func batchStage(stage []*systemEntry) [][]*systemEntry {
	var batches [][]*systemEntry
	for _, entry := range stage {
		placed := false
		if entry.access != nil {
			for i, batch := range batches {
				if batchAccepts(batch, entry) {
					batches[i] = append(batch, entry)
					placed = true
					break
				}
			}
		}
		if !placed {
			batches = append(batches, []*systemEntry{entry})
		}
	}
	return batches
}

func batchAccepts(batch []*systemEntry, entry *systemEntry) bool {
	for _, member := range batch {
		if member.access == nil || member.access.conflicts(*entry.access) {
			return false
		}
	}
	return true
}

// bindFields initializes Query and Singleton fields of a struct system and
// returns the queries to refresh before each run.
func bindFields(system System, world *World) []queryExecutor {
	value := reflect.ValueOf(system)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return nil
	}
	value = value.Elem()

	var queries []queryExecutor
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || !field.CanAddr() {
			continue
		}

		binder, ok := field.Addr().Interface().(worldBinder)
		if !ok {
			continue
		}
		binder.Init(world)

		if q, ok := binder.(queryExecutor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

func systemTypeName(system System) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Dispatcher runs registered systems once per tick in dependency order.
type Dispatcher struct {
	world    *World
	entries  []*systemEntry
	stages   [][][]*systemEntry
	parallel bool
	logger   zerolog.Logger
	tick     uint64
}

// Dispatch runs every system once. Structural changes queued by systems are
// applied after all systems finish, in registration order. The first system
// error aborts the tick: remaining batches are skipped and queued changes
// are discarded.
func (d *Dispatcher) Dispatch(dt float64) error {
	d.tick++

	for _, stage := range d.stages {
		for _, batch := range stage {
			if err := d.runBatch(batch, dt); err != nil {
				for _, entry := range d.entries {
					entry.commands.Reset()
				}
				return err
			}
		}
	}

	for _, entry := range d.entries {
		entry.commands.Flush(d.world)
	}
	return nil
}

func (d *Dispatcher) runBatch(batch []*systemEntry, dt float64) error {
	if !d.parallel || len(batch) == 1 {
		for _, entry := range batch {
			if err := d.runSystem(entry, dt); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	for _, entry := range batch {
		g.Go(func() error {
			return d.runSystem(entry, dt)
		})
	}
	return g.Wait()
}

func (d *Dispatcher) runSystem(entry *systemEntry, dt float64) error {
	for _, q := range entry.queries {
		q.Execute()
	}

	frame := &UpdateFrame{
		Tick:      d.tick,
		DeltaTime: dt,
		Commands:  entry.commands,
		World:     d.world,
		Logger:    entry.logger,
	}

	start := time.Now()
	err := entry.system.Execute(frame)
	entry.stats.record(time.Since(start))

	if err != nil {
		return eris.Wrapf(err, "system %s generated an error", entry.name)
	}
	return nil
}

// Run dispatches at the given interval until the context is cancelled or a
// system fails. Cancellation returns nil.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			if err := d.Dispatch(dt); err != nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// Tick returns the number of dispatches started so far
func (d *Dispatcher) Tick() uint64 {
	return d.tick
}

// World returns the world the dispatcher runs against
func (d *Dispatcher) World() *World {
	return d.world
}

// SystemNames returns system names in registration order
func (d *Dispatcher) SystemNames() []string {
	names := make([]string, len(d.entries))
	for i, entry := range d.entries {
		names[i] = entry.name
	}
	return names
}

// Stages returns system names grouped by stage, in execution order
func (d *Dispatcher) Stages() [][]string {
	stages := make([][]string, 0, len(d.stages))
	for _, stage := range d.stages {
		var names []string
		for _, batch := range stage {
			for _, entry := range batch {
				names = append(names, entry.name)
			}
		}
		stages = append(stages, names)
	}
	return stages
}

// Batches returns the batches of one stage, or nil for an unknown stage.
// Systems in a batch may run concurrently.
func (d *Dispatcher) Batches(stage int) [][]string {
	if stage < 0 || stage >= len(d.stages) {
		return nil
	}
	batches := make([][]string, 0, len(d.stages[stage]))
	for _, batch := range d.stages[stage] {
		names := make([]string, len(batch))
		for i, entry := range batch {
			names[i] = entry.name
		}
		batches = append(batches, names)
	}
	return batches
}

// Stats returns statistics about system execution in registration order.
func (d *Dispatcher) Stats() *DispatcherStats {
	stats := &DispatcherStats{
		Ticks:       d.tick,
		SystemCount: len(d.entries),
		Systems:     make([]SystemStats, len(d.entries)),
	}

	for i, entry := range d.entries {
		internal := entry.stats
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           entry.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}

// HasSystem reports whether a system with the given name is registered
func (d *Dispatcher) HasSystem(name string) bool {
	return slices.ContainsFunc(d.entries, func(e *systemEntry) bool { return e.name == name })
}
