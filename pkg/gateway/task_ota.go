package gateway

import (
	"context"
	"fmt"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/ota"
	"github.com/lora-aprs/igate-go/pkg/task"
)

// OTATask services over-the-air update requests once per tick.
type OTATask struct {
	updater ota.Updater
}

// NewOTATask creates the update task. A nil updater disables updates.
func NewOTATask(updater ota.Updater) *OTATask {
	if updater == nil {
		updater = ota.NoopUpdater{}
	}
	return &OTATask{updater: updater}
}

// Name implements task.Task.
func (t *OTATask) Name() string { return "ota" }

// Setup announces the update endpoint under the gateway callsign.
func (t *OTATask) Setup(ctx context.Context, cfg *config.Config) error {
	if err := t.updater.Begin(cfg.Callsign); err != nil {
		return fmt.Errorf("ota init: %w", err)
	}
	return nil
}

// Loop services pending update protocol work.
func (t *OTATask) Loop(ctx context.Context, cfg *config.Config) error {
	t.updater.Handle()
	return nil
}

var _ task.Task = (*OTATask)(nil)
