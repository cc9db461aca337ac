// Package scheduler drives the registered tasks round-robin on a single
// goroutine. There is no preemption, no priorities and no fairness beyond
// registration order; a task that blocks stalls every other task.
package scheduler

import (
	"context"
	"fmt"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/task"
)

// Scheduler owns an ordered collection of tasks and drives their lifecycle.
// It is not safe for concurrent use; exactly one goroutine calls Bootstrap
// and then Tick.
type Scheduler struct {
	tasks  []task.Task
	logger log.Logger

	bootstrapped bool
}

// New creates an empty scheduler. logger may be nil.
func New(logger log.Logger) *Scheduler {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Scheduler{logger: logger}
}

// Add registers a task. Registration order is execution order, for both
// Bootstrap and every Tick.
func (s *Scheduler) Add(t task.Task) {
	s.tasks = append(s.tasks, t)
}

// Tasks returns the registered tasks in registration order.
func (s *Scheduler) Tasks() []task.Task {
	return s.tasks
}

// Bootstrap runs Setup on every task in registration order. The first
// failure aborts the sequence and is fatal for the device: no task's Loop
// runs until every Setup has succeeded.
func (s *Scheduler) Bootstrap(ctx context.Context, cfg *config.Config) error {
	for _, t := range s.tasks {
		if err := t.Setup(ctx, cfg); err != nil {
			return fmt.Errorf("scheduler: setup of %s: %w", t.Name(), err)
		}
	}
	s.bootstrapped = true
	return nil
}

// Tick runs Loop on every task once, in registration order. No task is
// skipped. Loop errors are logged and the rotation continues; a task that
// wants resilience manages it inside its own Loop.
func (s *Scheduler) Tick(ctx context.Context, cfg *config.Config) {
	if !s.bootstrapped {
		return
	}
	for _, t := range s.tasks {
		if err := t.Loop(ctx, cfg); err != nil {
			s.logger.Log(log.NewErrorEvent(log.ComponentGateway, err.Error(), t.Name()))
		}
	}
}
