package uptime

import (
	"sync"
	"testing"
)

func advance(c *Counters, seconds int) {
	for i := 0; i < seconds; i++ {
		c.Advance()
	}
}

func TestCountersAdvance(t *testing.T) {
	var c Counters
	advance(&c, 3)

	if got := c.SinceStartup(); got != 3 {
		t.Errorf("SinceStartup() = %d, want 3", got)
	}
	if got := c.SinceDisplay(); got != 3 {
		t.Errorf("SinceDisplay() = %d, want 3", got)
	}
	if got := c.SinceBeacon(); got != 3 {
		t.Errorf("SinceBeacon() = %d, want 3", got)
	}
}

func TestTouchDisplay(t *testing.T) {
	var c Counters
	advance(&c, 5)
	c.TouchDisplay()

	if got := c.SinceDisplay(); got != 0 {
		t.Errorf("SinceDisplay() = %d after touch, want 0", got)
	}
	if got := c.SinceStartup(); got != 5 {
		t.Errorf("SinceStartup() = %d, want 5 (must not be touched)", got)
	}
}

func TestConsumeBeaconDue(t *testing.T) {
	t.Run("NotDueBeforeInterval", func(t *testing.T) {
		var c Counters
		advance(&c, 599)
		if c.ConsumeBeaconDue(600) {
			t.Error("due at 599 s with 600 s interval")
		}
		if got := c.SinceBeacon(); got != 599 {
			t.Errorf("SinceBeacon() = %d, counter must be untouched", got)
		}
	})

	t.Run("RemainderPreserved", func(t *testing.T) {
		var c Counters
		advance(&c, 605)
		if !c.ConsumeBeaconDue(600) {
			t.Fatal("not due at 605 s with 600 s interval")
		}
		if got := c.SinceBeacon(); got != 5 {
			t.Errorf("SinceBeacon() = %d after consume, want 5 (never reset to 0)", got)
		}
		// The overshoot counts toward the next interval.
		advance(&c, 595)
		if !c.ConsumeBeaconDue(600) {
			t.Error("not due after 595 more seconds despite 5 s remainder")
		}
	})

	t.Run("ExactBoundary", func(t *testing.T) {
		var c Counters
		advance(&c, 600)
		if !c.ConsumeBeaconDue(600) {
			t.Fatal("not due at exactly one interval")
		}
		if got := c.SinceBeacon(); got != 0 {
			t.Errorf("SinceBeacon() = %d, want 0", got)
		}
	})

	t.Run("FiresOncePerCrossing", func(t *testing.T) {
		var c Counters
		advance(&c, 605)
		if !c.ConsumeBeaconDue(600) {
			t.Fatal("first check not due")
		}
		if c.ConsumeBeaconDue(600) {
			t.Error("second check fired again without a new crossing")
		}
	})

	t.Run("ZeroInterval", func(t *testing.T) {
		var c Counters
		advance(&c, 10)
		if c.ConsumeBeaconDue(0) {
			t.Error("zero interval must never be due")
		}
	})
}

func TestConcurrentAccess(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.Advance()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			c.SinceBeacon()
			c.ConsumeBeaconDue(100)
			c.TouchDisplay()
		}
	}()
	wg.Wait()

	if got := c.SinceStartup(); got != 1000 {
		t.Errorf("SinceStartup() = %d, want 1000", got)
	}
}
