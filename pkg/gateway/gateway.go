package gateway

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lora-aprs/igate-go/pkg/aprs"
	"github.com/lora-aprs/igate-go/pkg/aprsis"
	"github.com/lora-aprs/igate-go/pkg/beacon"
	"github.com/lora-aprs/igate-go/pkg/board"
	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/connection"
	"github.com/lora-aprs/igate-go/pkg/discovery"
	"github.com/lora-aprs/igate-go/pkg/display"
	"github.com/lora-aprs/igate-go/pkg/ftp"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/ntp"
	"github.com/lora-aprs/igate-go/pkg/ota"
	"github.com/lora-aprs/igate-go/pkg/radio"
	"github.com/lora-aprs/igate-go/pkg/scheduler"
	"github.com/lora-aprs/igate-go/pkg/uptime"
	"github.com/lora-aprs/igate-go/pkg/version"
)

// DefaultTickInterval is the pause between scheduler rotations.
const DefaultTickInterval = 100 * time.Millisecond

// ErrNoBoard is returned when neither configuration nor hardware probing
// identifies the board.
var ErrNoBoard = errors.New("gateway: no board configured and none detected")

// Options configures a Gateway. Zero-value fields get working defaults:
// a simulated radio, a loopback FTP server, no OTA and log-backed
// display output.
type Options struct {
	// ConfigPath is the configuration file location.
	ConfigPath string

	// Logger receives structured trace events.
	Logger log.Logger

	// Receiver is the radio driver.
	Receiver radio.Receiver

	// FTPServer is the remote configuration server.
	FTPServer ftp.Server

	// Updater handles over-the-air updates.
	Updater ota.Updater

	// Restarter performs full device restarts.
	Restarter Restarter

	// Prober identifies the board on first boot.
	Prober board.Prober

	// Advertiser announces the gateway on the LAN. Nil disables
	// announcement.
	Advertiser discovery.Advertiser

	// Display renders status lines.
	Display display.Display

	// TickInterval overrides DefaultTickInterval.
	TickInterval time.Duration
}

// Gateway is the assembled device. New performs the boot sequence up to
// task registration; Run bootstraps the tasks and drives the tick loop.
type Gateway struct {
	cfg       *config.Config
	logger    log.Logger
	scheduler *scheduler.Scheduler
	counters  *uptime.Counters

	client     *aprsis.Client
	supervisor *connection.Supervisor
	beacon     *beacon.Scheduler
	queue      *PacketQueue
	advertiser discovery.Advertiser

	tickInterval time.Duration
}

// New loads the configuration, resolves the board and assembles the task
// roster. Any returned error is fatal for the device: the caller halts,
// it does not retry. On a first boot with no configured board, New
// persists the detected board and restarts instead of returning.
func New(opts Options) (*Gateway, error) {
	if opts.Logger == nil {
		opts.Logger = log.NoopLogger{}
	}
	if opts.Receiver == nil {
		opts.Receiver = radio.NewSimReceiver()
	}
	if opts.FTPServer == nil {
		opts.FTPServer = ftp.NewLoopbackServer()
	}
	if opts.Updater == nil {
		opts.Updater = ota.NoopUpdater{}
	}
	if opts.Restarter == nil {
		opts.Restarter = ExecRestarter{}
	}
	if opts.Display == nil {
		opts.Display = &display.SlogDisplay{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	b, err := resolveBoard(cfg, opts)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(b.Kind == board.KindEthernet); err != nil {
		return nil, err
	}

	counters := &uptime.Counters{}
	queue := &PacketQueue{}
	ctrl := display.NewController(opts.Display, counters, nil)

	passcode := cfg.APRSIS.Password
	if passcode == "" {
		passcode = strconv.Itoa(aprs.Passcode(cfg.Callsign))
	}
	client := aprsis.NewClient(cfg.Callsign, passcode, opts.Logger)
	supervisor := connection.NewSupervisor(func(ctx context.Context) error {
		return client.Connect(ctx, cfg.APRSIS.Server, cfg.APRSIS.Port)
	})
	client.OnDrop(supervisor.NotifyConnectionLost)

	sched := beacon.NewFromConfig(counters, cfg)

	g := &Gateway{
		cfg:          cfg,
		logger:       opts.Logger,
		scheduler:    scheduler.New(opts.Logger),
		counters:     counters,
		client:       client,
		supervisor:   supervisor,
		beacon:       sched,
		queue:        queue,
		advertiser:   opts.Advertiser,
		tickInterval: opts.TickInterval,
	}

	// Fixed roster order: modem, time sync, OTA, FTP, display, uplink.
	g.scheduler.Add(NewModemTask(opts.Receiver, queue, opts.Logger, ctrl))
	g.scheduler.Add(NewNTPTask(ntp.NewClient(cfg.NTPServer), opts.Logger))
	g.scheduler.Add(NewOTATask(opts.Updater))
	g.scheduler.Add(NewFTPTask(opts.FTPServer, os.DirFS(filepath.Dir(opts.ConfigPath)), opts.Restarter, opts.Logger))
	g.scheduler.Add(NewDisplayTask(ctrl))
	g.scheduler.Add(NewAprsIsTask(client, supervisor, sched, queue, opts.Logger, ctrl))

	return g, nil
}

// resolveBoard returns the configured board, probing and persisting it on
// first boot. Persisting restarts the device; the call does not return
// on that path outside of tests.
func resolveBoard(cfg *config.Config, opts Options) (board.Config, error) {
	finder := board.NewFinder(opts.Prober)

	if cfg.Board != "" {
		return finder.Get(cfg.Board)
	}

	b, ok := finder.Search()
	if !ok {
		return board.Config{}, ErrNoBoard
	}

	cfg.Board = b.Name
	if err := config.Save(opts.ConfigPath, cfg); err != nil {
		return board.Config{}, err
	}
	opts.Restarter.Restart()
	return b, nil
}

// Config returns the loaded configuration.
func (g *Gateway) Config() *config.Config {
	return g.cfg
}

// State returns the uplink state.
func (g *Gateway) State() connection.State {
	return g.supervisor.State()
}

// Uptime returns the seconds since the counters started.
func (g *Gateway) Uptime() uint {
	return g.counters.SinceStartup()
}

// ForceBeacon queues a position report outside the regular schedule.
func (g *Gateway) ForceBeacon() {
	g.beacon.Force()
}

// Run bootstraps the tasks and drives the tick loop until ctx is
// cancelled. Any returned error is fatal; the caller halts on it.
func (g *Gateway) Run(ctx context.Context) error {
	g.logger.Log(log.NewStateChangeEvent(log.ComponentGateway, "boot", "bootstrap", version.Banner()))

	ticker := uptime.StartTicker(ctx, g.counters)
	defer ticker.Stop()

	if err := g.scheduler.Bootstrap(ctx, g.cfg); err != nil {
		return err
	}

	g.announce(ctx)

	g.logger.Log(log.NewStateChangeEvent(log.ComponentGateway, "bootstrap", "running", g.cfg.Callsign))

	tick := time.NewTicker(g.tickInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			g.client.Close()
			if g.advertiser != nil {
				g.advertiser.StopAll()
			}
			return nil
		case <-tick.C:
			g.scheduler.Tick(ctx, g.cfg)
		}
	}
}

// announce publishes the gateway on the LAN. Failures are logged and
// otherwise ignored.
func (g *Gateway) announce(ctx context.Context) {
	if g.advertiser == nil {
		return
	}

	err := g.advertiser.AdvertiseGateway(ctx, &discovery.GatewayInfo{
		Callsign:  g.cfg.Callsign,
		Version:   version.SoftwareVersion,
		Frequency: g.cfg.LoRa.FrequencyRx,
	})
	if err != nil {
		g.logger.Log(log.NewErrorEvent(log.ComponentGateway, err.Error(), "mdns gateway"))
	}

	if g.cfg.FTP.Active {
		if err := g.advertiser.AdvertiseFTP(ctx, g.cfg.Callsign, discovery.DefaultFTPPort); err != nil {
			g.logger.Log(log.NewErrorEvent(log.ComponentGateway, err.Error(), "mdns ftp"))
		}
	}
}

// Halt is the fail-stop gate: it logs the fatal error and blocks
// forever. The device shows its last words and waits for a power cycle;
// there is no degraded mode.
func Halt(logger log.Logger, err error) {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	logger.Log(log.NewErrorEvent(log.ComponentGateway, err.Error(), "fatal"))
	fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
	select {}
}
