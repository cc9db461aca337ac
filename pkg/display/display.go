// Package display drives the on-device status display. Rendering is
// external behind the Display interface; this package owns the blanking
// policy: any user-visible activity turns the display on and restarts the
// timeout, and an override pin can force it on permanently.
package display

import (
	"log/slog"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/uptime"
)

// Display renders status lines. Implementations must tolerate being
// called from the task loop every tick.
type Display interface {
	// Show turns the display on and renders the given lines.
	Show(lines ...string)

	// Off blanks the display.
	Off()
}

// SlogDisplay writes display lines to the operational log. It stands in
// for the OLED on headless builds.
type SlogDisplay struct {
	Logger *slog.Logger
}

// Show logs the lines at Info level.
func (d *SlogDisplay) Show(lines ...string) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("display", "lines", lines)
}

// Off does nothing; there is no screen to blank.
func (d *SlogDisplay) Off() {}

// Controller applies the blanking policy using the shared elapsed-time
// counters. It is not safe for concurrent use; only the display task
// touches it.
type Controller struct {
	display  Display
	counters *uptime.Counters

	on bool

	// overridePressed reports the state of the display override pin.
	// Nil when the board has no such pin.
	overridePressed func() bool
}

// NewController creates a controller over the given display. The display
// starts on, as it is after boot.
func NewController(d Display, counters *uptime.Counters, overridePressed func() bool) *Controller {
	return &Controller{
		display:         d,
		counters:        counters,
		on:              true,
		overridePressed: overridePressed,
	}
}

// On reports whether the display is currently on.
func (c *Controller) On() bool {
	return c.on
}

// Activity turns the display on, shows the lines and restarts the
// blanking timeout.
func (c *Controller) Activity(lines ...string) {
	c.counters.TouchDisplay()
	c.on = true
	c.display.Show(lines...)
}

// Tick applies the blanking policy once. Call it every scheduler tick.
func (c *Controller) Tick(cfg *config.Config) {
	if cfg.Display.OverwritePin != 0 && c.overridePressed != nil && c.overridePressed() {
		c.counters.TouchDisplay()
		c.on = true
		return
	}
	if !cfg.Display.AlwaysOn && c.on && c.counters.SinceDisplay() > uint(cfg.Display.Timeout) {
		c.display.Off()
		c.on = false
	}
}
