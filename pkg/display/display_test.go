package display_test

import (
	"testing"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/display"
	"github.com/lora-aprs/igate-go/pkg/uptime"
)

type recordingDisplay struct {
	shown [][]string
	offs  int
}

func (d *recordingDisplay) Show(lines ...string) {
	d.shown = append(d.shown, lines)
}

func (d *recordingDisplay) Off() {
	d.offs++
}

func advance(c *uptime.Counters, seconds int) {
	for i := 0; i < seconds; i++ {
		c.Advance()
	}
}

func TestControllerBlanksAfterTimeout(t *testing.T) {
	rec := &recordingDisplay{}
	counters := &uptime.Counters{}
	ctrl := display.NewController(rec, counters, nil)

	cfg := config.Default()
	cfg.Display.Timeout = 10

	advance(counters, 10)
	ctrl.Tick(cfg)
	if !ctrl.On() {
		t.Fatal("display blanked at the timeout boundary, want strictly after")
	}

	advance(counters, 1)
	ctrl.Tick(cfg)
	if ctrl.On() {
		t.Fatal("display still on past the timeout")
	}
	if rec.offs != 1 {
		t.Fatalf("Off called %d times, want 1", rec.offs)
	}

	// Already off; further ticks must not blank again.
	advance(counters, 5)
	ctrl.Tick(cfg)
	if rec.offs != 1 {
		t.Fatalf("Off called %d times after extra ticks, want 1", rec.offs)
	}
}

func TestControllerActivityRestartsTimeout(t *testing.T) {
	rec := &recordingDisplay{}
	counters := &uptime.Counters{}
	ctrl := display.NewController(rec, counters, nil)

	cfg := config.Default()
	cfg.Display.Timeout = 10

	advance(counters, 8)
	ctrl.Activity("RX", "N0CALL>APRS:test")
	if len(rec.shown) != 1 {
		t.Fatalf("Show called %d times, want 1", len(rec.shown))
	}

	advance(counters, 10)
	ctrl.Tick(cfg)
	if !ctrl.On() {
		t.Fatal("display blanked 10s after activity, want timeout restarted")
	}

	advance(counters, 1)
	ctrl.Tick(cfg)
	if ctrl.On() {
		t.Fatal("display still on 11s after activity")
	}
}

func TestControllerAlwaysOnNeverBlanks(t *testing.T) {
	rec := &recordingDisplay{}
	counters := &uptime.Counters{}
	ctrl := display.NewController(rec, counters, nil)

	cfg := config.Default()
	cfg.Display.AlwaysOn = true
	cfg.Display.Timeout = 1

	advance(counters, 60)
	ctrl.Tick(cfg)
	if !ctrl.On() {
		t.Fatal("always-on display blanked")
	}
	if rec.offs != 0 {
		t.Fatalf("Off called %d times, want 0", rec.offs)
	}
}

func TestControllerOverridePinForcesOn(t *testing.T) {
	rec := &recordingDisplay{}
	counters := &uptime.Counters{}
	pressed := true
	ctrl := display.NewController(rec, counters, func() bool { return pressed })

	cfg := config.Default()
	cfg.Display.Timeout = 1
	cfg.Display.OverwritePin = 38

	advance(counters, 30)
	ctrl.Tick(cfg)
	if !ctrl.On() {
		t.Fatal("display blanked while the override pin is pressed")
	}

	// Pin released: the press reset the counter, so blanking resumes
	// only after the timeout expires again.
	pressed = false
	ctrl.Tick(cfg)
	if !ctrl.On() {
		t.Fatal("display blanked immediately after releasing the pin")
	}
	advance(counters, 2)
	ctrl.Tick(cfg)
	if ctrl.On() {
		t.Fatal("display still on after the timeout following pin release")
	}
}
