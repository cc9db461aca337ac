package gateway

import (
	"context"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/display"
	"github.com/lora-aprs/igate-go/pkg/task"
	"github.com/lora-aprs/igate-go/pkg/version"
)

// DisplayTask applies the display blanking policy once per tick.
type DisplayTask struct {
	controller *display.Controller
}

// NewDisplayTask creates the display task.
func NewDisplayTask(controller *display.Controller) *DisplayTask {
	return &DisplayTask{controller: controller}
}

// Name implements task.Task.
func (t *DisplayTask) Name() string { return "display" }

// Setup shows the startup banner.
func (t *DisplayTask) Setup(ctx context.Context, cfg *config.Config) error {
	t.controller.Activity(version.Banner(), cfg.Callsign)
	return nil
}

// Loop applies the blanking policy.
func (t *DisplayTask) Loop(ctx context.Context, cfg *config.Config) error {
	t.controller.Tick(cfg)
	return nil
}

var _ task.Task = (*DisplayTask)(nil)
