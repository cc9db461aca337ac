package gateway

import (
	"context"
	"fmt"

	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/display"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/radio"
	"github.com/lora-aprs/igate-go/pkg/task"
)

// ModemTask polls the radio for decoded packets and hands them to the
// uplink task through the shared queue.
type ModemTask struct {
	receiver radio.Receiver
	queue    *PacketQueue
	logger   log.Logger
	display  *display.Controller
}

// NewModemTask creates the modem task. display may be nil.
func NewModemTask(receiver radio.Receiver, queue *PacketQueue, logger log.Logger, d *display.Controller) *ModemTask {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &ModemTask{
		receiver: receiver,
		queue:    queue,
		logger:   logger,
		display:  d,
	}
}

// Name implements task.Task.
func (t *ModemTask) Name() string { return "modem" }

// Setup validates the radio parameters and initializes the modem.
// Invalid parameters are fatal for the device.
func (t *ModemTask) Setup(ctx context.Context, cfg *config.Config) error {
	params := radio.ParamsFromConfig(cfg)
	if err := params.Validate(); err != nil {
		return err
	}
	if err := t.receiver.Begin(params); err != nil {
		return fmt.Errorf("modem init: %w", err)
	}
	return nil
}

// Loop drains the packets the modem decoded since the last tick.
func (t *ModemTask) Loop(ctx context.Context, cfg *config.Config) error {
	for t.receiver.HasMessage() {
		p := t.receiver.Message()
		if p == nil || p.Msg == nil {
			continue
		}

		t.logger.Log(log.NewPacketEvent(log.ComponentRadio, log.DirectionIn, &log.PacketEvent{
			Raw:         p.Msg.Encode(),
			Source:      p.Msg.Source,
			Destination: p.Msg.Destination,
			RSSI:        p.RSSI,
			SNR:         p.SNR,
		}))
		if t.display != nil {
			t.display.Activity("RX", p.Msg.Source, p.Msg.Body)
		}

		t.queue.Push(p)
	}
	return nil
}

var _ task.Task = (*ModemTask)(nil)
