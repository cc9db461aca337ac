// Package aprsis implements the APRS-IS uplink: a TCP text protocol with a
// one-line login handshake, outbound packet lines and an inbound stream of
// server comments and gated traffic.
package aprsis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lora-aprs/igate-go/pkg/aprs"
	"github.com/lora-aprs/igate-go/pkg/log"
	"github.com/lora-aprs/igate-go/pkg/version"
)

// DefaultConnectTimeout bounds the dial and login handshake when the
// caller's context has no deadline of its own.
const DefaultConnectTimeout = 30 * time.Second

// inboundBuffer is the number of unread server lines kept before the
// oldest are dropped.
const inboundBuffer = 64

// Client errors.
var (
	ErrNotConnected = errors.New("aprsis: not connected")
	ErrLoginFailed  = errors.New("aprsis: login rejected by server")
)

// Client is an APRS-IS client. A Client holds at most one connection;
// ownership of the socket never leaves it.
type Client struct {
	callsign string
	passcode string
	logger   log.Logger

	mu     sync.Mutex
	conn   net.Conn
	connID string
	lines  chan string

	// onDrop fires once per connection when the transport is detected dead.
	onDrop func()
}

// NewClient creates a client that logs in with the given callsign and
// passcode. logger may be nil.
func NewClient(callsign, passcode string, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Client{
		callsign: callsign,
		passcode: passcode,
		logger:   logger,
	}
}

// OnDrop sets a callback invoked when the connection is detected dead.
// Set it before Connect.
func (c *Client) OnDrop(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDrop = fn
}

// Connect dials the server and performs the login handshake. On success a
// reader goroutine starts feeding the inbound line buffer. Connect must not
// be called again before the previous connection has dropped.
func (c *Client) Connect(ctx context.Context, server string, port int) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultConnectTimeout)
		defer cancel()
	}

	address := net.JoinHostPort(server, fmt.Sprintf("%d", port))
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("aprsis: dial %s: %w", address, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	reader := bufio.NewReader(conn)

	// The server greets with a comment line before accepting the login.
	if _, err := reader.ReadString('\n'); err != nil {
		conn.Close()
		return fmt.Errorf("aprsis: read server greeting: %w", err)
	}

	login := fmt.Sprintf("user %s pass %s vers %s %s\r\n",
		c.callsign, c.passcode, version.SoftwareName, version.SoftwareVersion)
	if _, err := conn.Write([]byte(login)); err != nil {
		conn.Close()
		return fmt.Errorf("aprsis: send login: %w", err)
	}

	// Scan for the logresp line; other comments may precede it.
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			conn.Close()
			return fmt.Errorf("aprsis: read login response: %w", err)
		}
		if !strings.Contains(line, "logresp") {
			continue
		}
		if !strings.Contains(line, " verified") || strings.Contains(line, " unverified") {
			conn.Close()
			return fmt.Errorf("%w: %s", ErrLoginFailed, strings.TrimSpace(line))
		}
		break
	}

	_ = conn.SetDeadline(time.Time{})

	c.mu.Lock()
	c.conn = conn
	c.connID = uuid.NewString()
	c.lines = make(chan string, inboundBuffer)
	connID := c.connID
	c.mu.Unlock()

	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		Component:    log.ComponentLink,
		ConnectionID: connID,
		StateChange: &log.StateChangeEvent{
			OldState: "DISCONNECTED",
			NewState: "CONNECTED",
			Reason:   "login verified",
		},
	})

	go c.readLoop(conn, reader, connID)
	return nil
}

// Connected reports whether the client currently holds a live connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// ConnectionID returns the UUID of the current connection, or "".
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}

// SendMessage encodes and sends one APRS message. Fire and forget: there
// is no acknowledgement and no retry.
func (c *Client) SendMessage(msg *aprs.Message) error {
	return c.SendLine(msg.Encode())
}

// SendLine sends one raw TNC2 line.
func (c *Client) SendLine(line string) error {
	c.mu.Lock()
	conn := c.conn
	connID := c.connID
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
		c.drop(conn, connID, "write failed")
		return fmt.Errorf("aprsis: send: %w", err)
	}
	return nil
}

// Available returns the number of buffered inbound lines.
func (c *Client) Available() int {
	c.mu.Lock()
	lines := c.lines
	c.mu.Unlock()
	if lines == nil {
		return 0
	}
	return len(lines)
}

// ReadLine returns the next buffered inbound line without blocking.
func (c *Client) ReadLine() (string, bool) {
	c.mu.Lock()
	lines := c.lines
	c.mu.Unlock()
	if lines == nil {
		return "", false
	}
	select {
	case line := <-lines:
		return line, true
	default:
		return "", false
	}
}

// Close tears down the current connection, if any.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	connID := c.connID
	c.mu.Unlock()
	if conn != nil {
		c.drop(conn, connID, "closed")
	}
}

// readLoop consumes inbound lines until the connection dies. Server
// comment lines (leading '#') are keepalives and are discarded.
func (c *Client) readLoop(conn net.Conn, reader *bufio.Reader, connID string) {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			c.drop(conn, connID, "read failed")
			return
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		c.mu.Lock()
		lines := c.lines
		stale := c.conn != conn
		c.mu.Unlock()
		if stale {
			return
		}

		select {
		case lines <- line:
		default:
			// Buffer full: the consumer is not keeping up, drop the line.
			c.logger.Log(log.NewErrorEvent(log.ComponentLink, "inbound buffer full, line dropped", connID))
		}
	}
}

// drop marks the connection dead exactly once and fires the drop callback.
func (c *Client) drop(conn net.Conn, connID, reason string) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connID = ""
	c.lines = nil
	onDrop := c.onDrop
	c.mu.Unlock()

	conn.Close()

	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		Component:    log.ComponentLink,
		ConnectionID: connID,
		StateChange: &log.StateChangeEvent{
			OldState: "CONNECTED",
			NewState: "DISCONNECTED",
			Reason:   reason,
		},
	})

	if onDrop != nil {
		onDrop()
	}
}
