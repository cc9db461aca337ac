// Package ota abstracts over-the-air update handling. The update protocol
// is external; the gateway announces itself under the configured hostname
// and services pending update work once per tick while the uplink is up.
package ota

import "sync"

// Updater is the update-engine surface the gateway drives.
type Updater interface {
	// Begin announces the device under hostname and prepares the engine.
	Begin(hostname string) error

	// Handle services pending update chunks. Called once per tick; must
	// not block.
	Handle()
}

// NoopUpdater satisfies Updater without an update engine attached.
type NoopUpdater struct{}

// Begin does nothing.
func (NoopUpdater) Begin(string) error { return nil }

// Handle does nothing.
func (NoopUpdater) Handle() {}

// RecordingUpdater counts calls; simulation mode and tests use it.
type RecordingUpdater struct {
	mu       sync.Mutex
	hostname string
	handled  int
}

// Begin records the hostname.
func (u *RecordingUpdater) Begin(hostname string) error {
	u.mu.Lock()
	u.hostname = hostname
	u.mu.Unlock()
	return nil
}

// Handle counts the invocation.
func (u *RecordingUpdater) Handle() {
	u.mu.Lock()
	u.handled++
	u.mu.Unlock()
}

// Hostname returns the hostname passed to Begin.
func (u *RecordingUpdater) Hostname() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hostname
}

// Handled returns how often Handle ran.
func (u *RecordingUpdater) Handled() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.handled
}

// Compile-time interface satisfaction checks.
var (
	_ Updater = NoopUpdater{}
	_ Updater = (*RecordingUpdater)(nil)
)
