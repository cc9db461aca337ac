package radio

import "sync"

// SimReceiver is an in-process Receiver used by simulation mode and tests.
// Packets injected with Inject come back out of Message in order.
type SimReceiver struct {
	mu      sync.Mutex
	began   bool
	params  Params
	packets []*Packet

	// BeginErr, when set, is returned by Begin to simulate radio
	// hardware that fails to initialize.
	BeginErr error
}

// NewSimReceiver creates an empty simulated receiver.
func NewSimReceiver() *SimReceiver {
	return &SimReceiver{}
}

// Begin validates and records the parameters.
func (r *SimReceiver) Begin(params Params) error {
	if r.BeginErr != nil {
		return r.BeginErr
	}
	if err := params.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.began = true
	r.params = params
	r.mu.Unlock()
	return nil
}

// Began reports whether Begin succeeded.
func (r *SimReceiver) Began() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.began
}

// Params returns the parameters passed to Begin.
func (r *SimReceiver) Params() Params {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.params
}

// Inject queues a packet as if it had been received over the air.
func (r *SimReceiver) Inject(p *Packet) {
	r.mu.Lock()
	r.packets = append(r.packets, p)
	r.mu.Unlock()
}

// HasMessage reports whether a packet is queued.
func (r *SimReceiver) HasMessage() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.packets) > 0
}

// Message dequeues the next packet, or nil when none is queued.
func (r *SimReceiver) Message() *Packet {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.packets) == 0 {
		return nil
	}
	p := r.packets[0]
	r.packets = r.packets[1:]
	return p
}

// Compile-time interface satisfaction check.
var _ Receiver = (*SimReceiver)(nil)
