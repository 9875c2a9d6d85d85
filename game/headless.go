package game

import (
	"context"

	"github.com/plus3/gridsnake/config"
	"github.com/plus3/gridsnake/ecs"
)

const stopSystemName = "stop"

// RunHeadless dispatches at the configured tick rate without a window. It
// stops after ticks dispatches when ticks is positive, otherwise when ctx is
// cancelled. The dispatcher is returned so callers can inspect its stats.
func RunHeadless(ctx context.Context, world *ecs.World, cfg *config.Config, ticks uint64, opts ...DispatcherOption) (*ecs.Dispatcher, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if ticks > 0 {
		opts = append(opts, WithSystem(ecs.SystemFunc(func(frame *ecs.UpdateFrame) error {
			if frame.Tick >= ticks {
				frame.Commands.Defer(cancel)
			}
			return nil
		}), stopSystemName))
	}

	dispatcher, err := NewDispatcher(world, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return dispatcher, dispatcher.Run(ctx, cfg.Timestep())
}
