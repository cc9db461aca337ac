// Package task defines the unit of work driven by the scheduler.
package task

import (
	"context"

	"github.com/lora-aprs/igate-go/pkg/config"
)

// Task is one independent gateway subsystem with a two-phase lifecycle.
//
// Setup runs exactly once, before any task's Loop. It may block: the whole
// boot sequence is an accepted startup stall and nothing else runs yet.
//
// Loop runs at most once per scheduler tick, in registration order. It must
// not block in the steady state; a task needing a delay keeps its own
// cooldown and returns. Loop errors are logged by the scheduler and never
// remove the task from the rotation.
type Task interface {
	// Name identifies the task in logs.
	Name() string

	// Setup performs one-time initialization. An error is fatal for the
	// whole device; there is no partial-degradation mode.
	Setup(ctx context.Context, cfg *config.Config) error

	// Loop performs one polling step.
	Loop(ctx context.Context, cfg *config.Config) error
}
