// Command igate runs the LoRa APRS gateway daemon.
//
// The gateway receives APRS packets over LoRa, forwards them to the
// APRS-IS backbone, sends its own periodic position beacon and serves
// its configuration over FTP for remote maintenance.
//
// Usage:
//
//	igate [flags]
//
// Flags:
//
//	-config string     Configuration file path (default "is-cfg.yml")
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-event-log string  Append structured trace events to this file
//	-simulate          Feed synthetic radio traffic into the gateway
//	-interactive       Start the interactive console
//
// Examples:
//
//	# Run with the local configuration file
//	igate -config /etc/igate/is-cfg.yml
//
//	# Exercise the full pipeline without radio hardware
//	igate -config is-cfg.yml -simulate -interactive -log-level debug
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lora-aprs/igate-go/cmd/igate/interactive"
	"github.com/lora-aprs/igate-go/pkg/aprs"
	"github.com/lora-aprs/igate-go/pkg/discovery"
	"github.com/lora-aprs/igate-go/pkg/display"
	"github.com/lora-aprs/igate-go/pkg/gateway"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/radio"
	"github.com/lora-aprs/igate-go/pkg/version"
)

// Config holds the command-line settings.
type Config struct {
	ConfigFile   string
	LogLevel     string
	EventLogFile string
	Simulate     bool
	Interactive  bool
}

var cli Config

func init() {
	flag.StringVar(&cli.ConfigFile, "config", "is-cfg.yml", "Configuration file path")
	flag.StringVar(&cli.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&cli.EventLogFile, "event-log", "", "Append structured trace events to this file")
	flag.BoolVar(&cli.Simulate, "simulate", false, "Feed synthetic radio traffic into the gateway")
	flag.BoolVar(&cli.Interactive, "interactive", false, "Start the interactive console")
}

func main() {
	flag.Parse()

	slogger := setupLogging(cli.LogLevel)
	slogger.Info(version.Banner())

	logger, closeLog := buildEventLogger(slogger)
	defer closeLog()

	receiver := radio.NewSimReceiver()
	advertiser, err := discovery.NewMDNSAdvertiser(discovery.DefaultAdvertiserConfig())
	if err != nil {
		slogger.Warn("mdns unavailable", "err", err)
	}

	opts := gateway.Options{
		ConfigPath: cli.ConfigFile,
		Logger:     logger,
		Receiver:   receiver,
		Display:    &display.SlogDisplay{Logger: slogger},
	}
	if advertiser != nil {
		opts.Advertiser = advertiser
	}

	g, err := gateway.New(opts)
	if err != nil {
		gateway.Halt(logger, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cli.Interactive {
		console, err := interactive.New(g, receiver)
		if err != nil {
			slogger.Error("interactive console", "err", err)
			os.Exit(1)
		}
		go console.Run(ctx, cancel)
	}

	if cli.Simulate {
		go runSimulation(ctx, receiver)
	}

	if err := g.Run(ctx); err != nil {
		gateway.Halt(logger, err)
	}
	slogger.Info("shutdown complete")
}

func setupLogging(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// buildEventLogger assembles the structured event pipeline: always the
// slog bridge, plus the CBOR file log when requested.
func buildEventLogger(slogger *slog.Logger) (log.Logger, func()) {
	adapter := log.NewSlogAdapter(slogger)
	if cli.EventLogFile == "" {
		return adapter, func() {}
	}

	file, err := log.NewFileLogger(cli.EventLogFile)
	if err != nil {
		slogger.Warn("event log unavailable", "path", cli.EventLogFile, "err", err)
		return adapter, func() {}
	}
	return log.NewMultiLogger(adapter, file), func() { _ = file.Close() }
}

// runSimulation injects a synthetic mobile station into the radio path
// so the relay and logging pipeline can be exercised without hardware.
func runSimulation(ctx context.Context, receiver *radio.SimReceiver) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n++
			receiver.Inject(&radio.Packet{
				Msg:  aprs.NewMessage("N0CALL-7", "APRS", "!4812.50N/01414.56E>simulated"),
				RSSI: -90 - n%20,
				SNR:  5.5,
			})
		}
	}
}
