// Package ntp keeps the gateway clock aligned with a time server. The
// gateway has no battery-backed clock; log lines and display timestamps
// come from here.
package ntp

import (
	"errors"
	"sync"
	"time"

	"github.com/beevik/ntp"
)

// ErrNotSynced is returned before the first successful update.
var ErrNotSynced = errors.New("ntp: clock not yet synchronized")

// Client queries one NTP server and tracks the local clock offset.
type Client struct {
	server string

	mu     sync.Mutex
	offset time.Duration
	synced bool

	// query is replaceable for tests.
	query func(server string) (time.Duration, error)
}

// NewClient creates a client for the given server.
func NewClient(server string) *Client {
	return &Client{
		server: server,
		query: func(server string) (time.Duration, error) {
			resp, err := ntp.Query(server)
			if err != nil {
				return 0, err
			}
			if err := resp.Validate(); err != nil {
				return 0, err
			}
			return resp.ClockOffset, nil
		},
	}
}

// ForceUpdate queries the server once and records the clock offset.
func (c *Client) ForceUpdate() error {
	offset, err := c.query(c.server)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.offset = offset
	c.synced = true
	c.mu.Unlock()
	return nil
}

// Synced reports whether at least one update succeeded.
func (c *Client) Synced() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.synced
}

// Now returns the offset-corrected wall time.
func (c *Client) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Add(c.offset)
}

// FormattedTime returns the corrected time as HH:MM:SS for log and
// display lines.
func (c *Client) FormattedTime() string {
	return c.Now().Format("15:04:05")
}
