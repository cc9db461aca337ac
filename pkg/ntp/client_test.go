package ntp

import (
	"errors"
	"testing"
	"time"
)

func TestForceUpdate(t *testing.T) {
	c := NewClient("pool.ntp.org")
	c.query = func(server string) (time.Duration, error) {
		if server != "pool.ntp.org" {
			t.Errorf("queried %q", server)
		}
		return 250 * time.Millisecond, nil
	}

	if c.Synced() {
		t.Error("Synced() = true before first update")
	}
	if err := c.ForceUpdate(); err != nil {
		t.Fatalf("ForceUpdate: %v", err)
	}
	if !c.Synced() {
		t.Error("Synced() = false after update")
	}

	drift := c.Now().Sub(time.Now()) - 250*time.Millisecond
	if drift < -50*time.Millisecond || drift > 50*time.Millisecond {
		t.Errorf("offset not applied, drift = %v", drift)
	}
}

func TestForceUpdateFailure(t *testing.T) {
	boom := errors.New("no route")
	c := NewClient("pool.ntp.org")
	c.query = func(string) (time.Duration, error) { return 0, boom }

	if err := c.ForceUpdate(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if c.Synced() {
		t.Error("Synced() = true after failed update")
	}
}

func TestFormattedTime(t *testing.T) {
	c := NewClient("pool.ntp.org")
	got := c.FormattedTime()
	if len(got) != 8 || got[2] != ':' || got[5] != ':' {
		t.Errorf("FormattedTime() = %q, want HH:MM:SS", got)
	}
}
