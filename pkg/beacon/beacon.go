// Package beacon schedules the gateway's own periodic position report.
//
// Scheduling is split in two: a check step raises a pending flag when a
// full interval has elapsed on the shared counters, and a send step
// clears it once the report actually went out. Keeping the steps apart
// lets a report wait for the uplink to come back without losing its
// slot, and rewinding the counter by whole intervals keeps the period
// drift-free even when a check runs late.
package beacon

import (
	"sync"

	"github.com/lora-aprs/igate-go/pkg/aprs"
	"github.com/lora-aprs/igate-go/pkg/config"
	"github.com/lora-aprs/igate-go/pkg/uptime"
	"github.com/lora-aprs/igate-go/pkg/version"
)

// Scheduler decides when the position report is due. It is safe for
// concurrent use; the console may force a report while the uplink task
// runs.
type Scheduler struct {
	counters *uptime.Counters
	interval uint
	message  *aprs.Message

	mu  sync.Mutex
	due bool
}

// New creates a scheduler sending message every interval seconds. No
// report is due at startup; the first one follows a full interval after
// boot.
func New(counters *uptime.Counters, interval uint, message *aprs.Message) *Scheduler {
	return &Scheduler{
		counters: counters,
		interval: interval,
		message:  message,
	}
}

// NewFromConfig builds the position report from the configuration and
// creates a scheduler for it.
func NewFromConfig(counters *uptime.Counters, cfg *config.Config) *Scheduler {
	msg := aprs.NewPositionReport(
		cfg.Callsign,
		version.TocallDestination,
		cfg.Beacon.Latitude,
		cfg.Beacon.Longitude,
		cfg.Beacon.Message,
	)
	return New(counters, cfg.BeaconInterval(), msg)
}

// Tick runs the check step: when a full interval has elapsed it rewinds
// the counter and marks a report pending. A report already pending stays
// pending; intervals are never stacked.
func (s *Scheduler) Tick() {
	if s.counters.ConsumeBeaconDue(s.interval) {
		s.mu.Lock()
		s.due = true
		s.mu.Unlock()
	}
}

// Force marks a report pending outside the regular schedule.
func (s *Scheduler) Force() {
	s.mu.Lock()
	s.due = true
	s.mu.Unlock()
}

// Due reports whether a position report is waiting to be sent.
func (s *Scheduler) Due() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.due
}

// Message returns the position report to send.
func (s *Scheduler) Message() *aprs.Message {
	return s.message
}

// MarkSent clears the pending flag. Call it only after the report was
// handed to the uplink; a pending report survives any number of ticks
// while the uplink is down.
func (s *Scheduler) MarkSent() {
	s.mu.Lock()
	s.due = false
	s.mu.Unlock()
}
