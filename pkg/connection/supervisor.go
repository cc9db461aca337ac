package connection

import (
	"context"
	"errors"
	"sync"
	"time"
)

// RetryDelay is the fixed cooldown between failed connection attempts.
const RetryDelay = 5 * time.Second

// Connection errors.
var (
	ErrNotConnected = errors.New("connection: not connected")
)

// State represents the uplink connection state.
type State uint8

const (
	// StateDisconnected indicates no active connection.
	StateDisconnected State = iota

	// StateConnecting indicates a connection attempt is in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// ConnectFunc establishes the connection, including the login handshake.
// It returns nil on success.
type ConnectFunc func(ctx context.Context) error

// Supervisor manages the uplink connection lifecycle with bounded retry.
type Supervisor struct {
	mu sync.Mutex

	state       State
	connectFn   ConnectFunc
	retryDelay  time.Duration
	nextAttempt time.Time

	// now is replaceable for tests.
	now func() time.Time

	onStateChange  func(oldState, newState State)
	onConnected    func()
	onDisconnected func()
}

// NewSupervisor creates a supervisor around the given connect function.
func NewSupervisor(connectFn ConnectFunc) *Supervisor {
	return &Supervisor{
		state:      StateDisconnected,
		connectFn:  connectFn,
		retryDelay: RetryDelay,
		now:        time.Now,
	}
}

// State returns the current connection state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsConnected returns true if currently connected.
func (s *Supervisor) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateConnected
}

// Evaluate runs one step of the state machine. When required is true, the
// state is DISCONNECTED and the retry cooldown has elapsed, it performs a
// connection attempt; in every other case it returns immediately. While an
// attempt is in flight the state is CONNECTING and further Evaluate calls
// are no-ops, so a repeated "link required" signal can never start a second
// concurrent attempt.
func (s *Supervisor) Evaluate(ctx context.Context, required bool) {
	if !required {
		return
	}

	s.mu.Lock()
	if s.state != StateDisconnected || s.now().Before(s.nextAttempt) {
		s.mu.Unlock()
		return
	}
	s.state = StateConnecting
	stateCb := s.onStateChange
	s.mu.Unlock()
	if stateCb != nil {
		stateCb(StateDisconnected, StateConnecting)
	}

	err := s.connectFn(ctx)

	s.mu.Lock()
	if err != nil {
		s.state = StateDisconnected
		s.nextAttempt = s.now().Add(s.retryDelay)
		s.mu.Unlock()
		if stateCb != nil {
			stateCb(StateConnecting, StateDisconnected)
		}
		return
	}
	s.state = StateConnected
	connectedCb := s.onConnected
	s.mu.Unlock()

	if stateCb != nil {
		stateCb(StateConnecting, StateConnected)
	}
	if connectedCb != nil {
		connectedCb()
	}
}

// NotifyConnectionLost records that the underlying transport dropped.
// The next Evaluate may reconnect immediately; a lost connection carries
// no cooldown.
func (s *Supervisor) NotifyConnectionLost() {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return
	}
	s.state = StateDisconnected
	stateCb := s.onStateChange
	disconnectedCb := s.onDisconnected
	s.mu.Unlock()

	if stateCb != nil {
		stateCb(StateConnected, StateDisconnected)
	}
	if disconnectedCb != nil {
		disconnectedCb()
	}
}

// RetryAt returns when the next connection attempt becomes eligible.
// The zero time means no cooldown is armed.
func (s *Supervisor) RetryAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextAttempt
}

// OnStateChange sets a callback for state transitions. Callbacks run
// outside the supervisor's lock.
func (s *Supervisor) OnStateChange(fn func(oldState, newState State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// OnConnected sets a callback for successful connection.
func (s *Supervisor) OnConnected(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnected = fn
}

// OnDisconnected sets a callback for transport loss.
func (s *Supervisor) OnDisconnected(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnected = fn
}
