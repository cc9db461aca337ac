package gateway

import (
	"context"

	"github.com/lora-aprs/igate-go/pkg/aprs"
	"github.com/lora-aprs/igate-go/pkg/beacon"
	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/connection"
	"github.com/lora-aprs/igate-go/pkg/display"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/task"
)

// Link is the backend connection surface the uplink task drives. The
// aprsis.Client implements it; tests use an in-memory fake.
type Link interface {
	// Connected reports whether the transport is up.
	Connected() bool

	// SendMessage writes one message to the backend.
	SendMessage(msg *aprs.Message) error

	// Available returns the number of buffered inbound server lines.
	Available() int

	// ReadLine returns the next inbound line without blocking.
	ReadLine() (string, bool)
}

// AprsIsTask owns the backend uplink: it drives the connectivity
// supervisor, relays radio packets, drains inbound server lines and
// sends the periodic beacon.
type AprsIsTask struct {
	link       Link
	supervisor *connection.Supervisor
	beacon     *beacon.Scheduler
	queue      *PacketQueue
	logger     log.Logger
	display    *display.Controller
}

// NewAprsIsTask creates the uplink task. display may be nil.
func NewAprsIsTask(link Link, supervisor *connection.Supervisor, sched *beacon.Scheduler, queue *PacketQueue, logger log.Logger, d *display.Controller) *AprsIsTask {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &AprsIsTask{
		link:       link,
		supervisor: supervisor,
		beacon:     sched,
		queue:      queue,
		logger:     logger,
		display:    d,
	}
}

// Name implements task.Task.
func (t *AprsIsTask) Name() string { return "aprs_is" }

// Setup wires the supervisor transitions into the event log.
func (t *AprsIsTask) Setup(ctx context.Context, cfg *config.Config) error {
	t.supervisor.OnStateChange(func(oldState, newState connection.State) {
		t.logger.Log(log.NewStateChangeEvent(log.ComponentLink, oldState.String(), newState.String(), ""))
	})
	t.supervisor.OnConnected(func() {
		if t.display != nil {
			t.display.Activity("APRS-IS", "connected")
		}
	})
	return nil
}

// Loop runs one uplink slice: supervise the connection, drain inbound
// lines, relay queued packets, then the beacon send step.
func (t *AprsIsTask) Loop(ctx context.Context, cfg *config.Config) error {
	t.supervisor.Evaluate(ctx, cfg.APRSIS.Active)

	t.drainInbound()
	t.relay()
	t.sendBeacon(cfg)
	return nil
}

// drainInbound consumes the server lines buffered since the last tick.
// The gateway is receive-only toward the radio, so the lines are only
// traced.
func (t *AprsIsTask) drainInbound() {
	for t.link.Available() > 0 {
		line, ok := t.link.ReadLine()
		if !ok {
			return
		}

		evt := &log.PacketEvent{Raw: line}
		if msg, err := aprs.Parse(line); err == nil {
			evt.Source = msg.Source
			evt.Destination = msg.Destination
		}
		t.logger.Log(log.NewPacketEvent(log.ComponentLink, log.DirectionIn, evt))
	}
}

// relay forwards queued radio packets to the backend. While the uplink
// is down packets are dropped immediately; there is no replay.
func (t *AprsIsTask) relay() {
	for {
		p := t.queue.Pop()
		if p == nil {
			return
		}

		if !t.supervisor.IsConnected() {
			t.logger.Log(log.NewPacketEvent(log.ComponentLink, log.DirectionOut, &log.PacketEvent{
				Raw:     p.Msg.Encode(),
				Source:  p.Msg.Source,
				Dropped: true,
			}))
			continue
		}

		if err := t.link.SendMessage(p.Msg); err != nil {
			t.logger.Log(log.NewErrorEvent(log.ComponentLink, err.Error(), "relay"))
			continue
		}
		t.logger.Log(log.NewPacketEvent(log.ComponentLink, log.DirectionOut, &log.PacketEvent{
			Raw:    p.Msg.Encode(),
			Source: p.Msg.Source,
		}))
	}
}

// sendBeacon runs the beacon check and, when due and the uplink is up,
// the send step. A due beacon waits across ticks for the uplink.
func (t *AprsIsTask) sendBeacon(cfg *config.Config) {
	if !cfg.APRSIS.Beacon || t.beacon == nil {
		return
	}

	t.beacon.Tick()
	if !t.beacon.Due() || !t.supervisor.IsConnected() {
		return
	}

	msg := t.beacon.Message()
	if err := t.link.SendMessage(msg); err != nil {
		t.logger.Log(log.NewErrorEvent(log.ComponentBeacon, err.Error(), "beacon send"))
		return
	}
	t.beacon.MarkSent()

	t.logger.Log(log.NewPacketEvent(log.ComponentBeacon, log.DirectionOut, &log.PacketEvent{
		Raw:    msg.Encode(),
		Source: msg.Source,
	}))
	if t.display != nil {
		t.display.Activity("Beacon", msg.Body)
	}
}

var _ task.Task = (*AprsIsTask)(nil)
