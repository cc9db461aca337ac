package gateway_test

import (
	"context"
	"testing"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/gateway"
	"github.com/lora-aprs/igate-go/pkg/ota"
)

func TestOTATaskServicesUpdater(t *testing.T) {
	updater := &ota.RecordingUpdater{}
	task := gateway.NewOTATask(updater)

	cfg := config.Default()
	cfg.Callsign = "OE5BPA-10"

	ctx := context.Background()
	if err := task.Setup(ctx, cfg); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if updater.Hostname() != "OE5BPA-10" {
		t.Fatalf("hostname = %q, want the callsign", updater.Hostname())
	}

	for i := 0; i < 3; i++ {
		if err := task.Loop(ctx, cfg); err != nil {
			t.Fatalf("Loop: %v", err)
		}
	}
	if updater.Handled() != 3 {
		t.Fatalf("Handle called %d times, want 3", updater.Handled())
	}
}
