// Package uptime maintains the elapsed-seconds counters shared between the
// 1 Hz tick producer and the task loop.
//
// Three counters advance together: seconds since startup, seconds since the
// display was last touched and seconds since the last APRS-IS beacon. On the
// original hardware a timer interrupt increments them inside a critical
// section; here a Ticker goroutine plays the interrupt and a single mutex is
// the critical section. Every read is atomic on its own, but two reads in
// the same tick may observe different tick counts; consumers must not assume
// cross-counter consistency.
package uptime

import (
	"context"
	"sync"
	"time"
)

// Counters is the shared counter block. The zero value is ready to use.
//
// Consumers only ever reset the display counter to zero and rewind the
// beacon counter by whole intervals; the beacon counter is never zeroed, so
// overshoot past an interval boundary carries into the next period.
type Counters struct {
	mu sync.Mutex

	sinceStartup uint
	sinceDisplay uint
	sinceBeacon  uint
}

// Advance adds one second to all counters. Only the tick producer calls it.
func (c *Counters) Advance() {
	c.mu.Lock()
	c.sinceStartup++
	c.sinceDisplay++
	c.sinceBeacon++
	c.mu.Unlock()
}

// SinceStartup returns the seconds elapsed since boot.
func (c *Counters) SinceStartup() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sinceStartup
}

// SinceDisplay returns the seconds since the display was last touched.
func (c *Counters) SinceDisplay() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sinceDisplay
}

// SinceBeacon returns the seconds since the last beacon rewind.
func (c *Counters) SinceBeacon() uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sinceBeacon
}

// TouchDisplay marks display activity, restarting the blanking timeout.
func (c *Counters) TouchDisplay() {
	c.mu.Lock()
	c.sinceDisplay = 0
	c.mu.Unlock()
}

// ConsumeBeaconDue reports whether a full beacon interval has elapsed and,
// if so, rewinds the beacon counter by exactly that interval in the same
// critical section. The remainder above the interval is preserved so that
// repeated checks do not drift: a counter at 605 with a 600 s interval
// leaves 5, and the next beacon is due after a further 595 s.
func (c *Counters) ConsumeBeaconDue(interval uint) bool {
	if interval == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sinceBeacon < interval {
		return false
	}
	c.sinceBeacon -= interval
	return true
}

// Ticker drives a Counters block at a fixed 1 s period, standing in for the
// hardware timer interrupt.
type Ticker struct {
	counters *Counters
	stop     context.CancelFunc
	done     chan struct{}
}

// StartTicker begins advancing counters once per second until Stop is
// called or ctx is cancelled.
func StartTicker(ctx context.Context, counters *Counters) *Ticker {
	ctx, cancel := context.WithCancel(ctx)
	t := &Ticker{
		counters: counters,
		stop:     cancel,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				counters.Advance()
			}
		}
	}()

	return t
}

// Stop halts the ticker and waits for the producer goroutine to exit.
func (t *Ticker) Stop() {
	t.stop()
	<-t.done
}
