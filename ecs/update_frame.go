package ecs

import "github.com/rs/zerolog"

// UpdateFrame is what a system sees while it runs. Commands belongs to the
// running system alone; Logger carries the system name.
type UpdateFrame struct {
	Tick      uint64
	DeltaTime float64
	Commands  *Commands
	World     *World
	Logger    zerolog.Logger
}
