// Package interactive provides the interactive console for the gateway.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/lora-aprs/igate-go/pkg/aprs"
	"github.com/lora-aprs/igate-go/pkg/discovery"
	"github.com/lora-aprs/igate-go/pkg/gateway"
	"github.com/lora-aprs/igate-go/pkg/radio"
	"github.com/lora-aprs/igate-go/pkg/version"
)

// browseTimeout bounds one LAN browse from the console.
const browseTimeout = 5 * time.Second

// Console handles the interactive command loop.
type Console struct {
	gw       *gateway.Gateway
	receiver *radio.SimReceiver
	rl       *readline.Instance
}

// New creates a console over the running gateway. receiver may be nil
// when no simulated radio is attached.
func New(gw *gateway.Gateway, receiver *radio.SimReceiver) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "igate> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{gw: gw, receiver: receiver, rl: rl}, nil
}

// Run starts the command loop. Quitting cancels the gateway context.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "status", "s":
			c.cmdStatus()

		case "beacon", "b":
			c.cmdBeacon()

		case "packet", "p":
			c.cmdPacket(args)

		case "browse":
			c.cmdBrowse(ctx)

		case "find", "f":
			c.cmdFind(ctx, args)

		case "restart":
			c.cmdRestart()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
iGate Commands:
  status             - Show uplink state and uptime
  beacon             - Queue a position report now
  packet <src> <body> - Inject a simulated radio packet
  browse             - List gateways announced on the LAN
  find <callsign>    - Find a specific gateway on the LAN
  restart            - Restart the gateway process
  quit               - Exit`)
}

func (c *Console) cmdStatus() {
	cfg := c.gw.Config()
	out := c.rl.Stdout()
	fmt.Fprintf(out, "%s  callsign %s\n", version.Banner(), cfg.Callsign)
	fmt.Fprintf(out, "uplink: %s (%s:%d)\n", c.gw.State(), cfg.APRSIS.Server, cfg.APRSIS.Port)
	fmt.Fprintf(out, "uptime: %d s\n", c.gw.Uptime())
}

func (c *Console) cmdBeacon() {
	c.gw.ForceBeacon()
	fmt.Fprintln(c.rl.Stdout(), "beacon queued")
}

func (c *Console) cmdPacket(args []string) {
	out := c.rl.Stdout()
	if c.receiver == nil {
		fmt.Fprintln(out, "no simulated radio attached")
		return
	}
	if len(args) < 2 {
		fmt.Fprintln(out, "usage: packet <src> <body>")
		return
	}

	msg := aprs.NewMessage(strings.ToUpper(args[0]), "APRS", strings.Join(args[1:], " "))
	c.receiver.Inject(&radio.Packet{Msg: msg, RSSI: -80, SNR: 8})
	fmt.Fprintf(out, "injected %s\n", msg)
}

func (c *Console) cmdBrowse(ctx context.Context) {
	out := c.rl.Stdout()

	browser, err := discovery.NewMDNSBrowser(discovery.BrowserConfig{})
	if err != nil {
		fmt.Fprintf(out, "browse failed: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, browseTimeout)
	defer cancel()

	results, err := browser.BrowseGateways(ctx)
	if err != nil {
		fmt.Fprintf(out, "browse failed: %v\n", err)
		return
	}

	found := 0
	for svc := range results {
		found++
		fmt.Fprintln(out, formatGateway(svc))
	}
	if found == 0 {
		fmt.Fprintln(out, "no gateways found")
	}
}

func (c *Console) cmdFind(ctx context.Context, args []string) {
	out := c.rl.Stdout()
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: find <callsign>")
		return
	}

	browser, err := discovery.NewMDNSBrowser(discovery.BrowserConfig{})
	if err != nil {
		fmt.Fprintf(out, "find failed: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, browseTimeout)
	defer cancel()

	svc, err := browser.FindByCallsign(ctx, strings.ToUpper(args[0]))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, discovery.ErrNotFound) {
			fmt.Fprintln(out, "not found")
		} else {
			fmt.Fprintf(out, "find failed: %v\n", err)
		}
		return
	}
	fmt.Fprintln(out, formatGateway(svc))
}

func formatGateway(svc *discovery.GatewayService) string {
	line := fmt.Sprintf("%s  %s:%d", svc.Callsign, svc.Host, svc.Port)
	if svc.Version != "" {
		line += "  v" + svc.Version
	}
	if svc.Frequency > 0 {
		line += fmt.Sprintf("  %.4f MHz", float64(svc.Frequency)/1e6)
	}
	if len(svc.Addresses) > 0 {
		line += "  [" + strings.Join(svc.Addresses, " ") + "]"
	}
	return line
}

func (c *Console) cmdRestart() {
	fmt.Fprintln(c.rl.Stdout(), "restarting...")
	gateway.ExecRestarter{}.Restart()
}
