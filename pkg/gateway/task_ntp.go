package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/ntp"
	"github.com/lora-aprs/igate-go/pkg/task"
)

// ntpRetryDelay is the pause between failed boot-time sync attempts.
const ntpRetryDelay = time.Second

// NTPTask synchronizes the clock at boot. Setup retries until it gets a
// first fix; a gateway without wall-clock time would timestamp its
// traffic wrongly, so boot stalls rather than proceeding unsynced.
type NTPTask struct {
	client *ntp.Client
	logger log.Logger
}

// NewNTPTask creates the time-sync task.
func NewNTPTask(client *ntp.Client, logger log.Logger) *NTPTask {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &NTPTask{client: client, logger: logger}
}

// Name implements task.Task.
func (t *NTPTask) Name() string { return "ntp" }

// Setup blocks until the first sync succeeds or ctx is cancelled.
func (t *NTPTask) Setup(ctx context.Context, cfg *config.Config) error {
	for {
		err := t.client.ForceUpdate()
		if err == nil {
			t.logger.Log(log.NewStateChangeEvent(log.ComponentGateway, "unsynced", "synced", t.client.FormattedTime()))
			return nil
		}
		t.logger.Log(log.NewErrorEvent(log.ComponentGateway, err.Error(), "ntp sync"))

		select {
		case <-ctx.Done():
			return fmt.Errorf("ntp sync: %w", ctx.Err())
		case <-time.After(ntpRetryDelay):
		}
	}
}

// Loop does nothing; the offset from the boot sync holds for the run.
func (t *NTPTask) Loop(ctx context.Context, cfg *config.Config) error {
	return nil
}

var _ task.Task = (*NTPTask)(nil)
