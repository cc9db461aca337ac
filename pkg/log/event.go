package log

import "time"

// Event is one trace record. CBOR encoding uses integer keys for
// compactness; exactly one of the typed payloads is set.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// Component that produced the event.
	Component Component `cbor:"2,keyasint"`

	// Direction of packet flow, where applicable.
	Direction Direction `cbor:"3,keyasint,omitempty"`

	// ConnectionID identifies the APRS-IS connection (UUID), when one is
	// involved.
	ConnectionID string `cbor:"4,keyasint,omitempty"`

	// Typed payloads.
	Packet      *PacketEvent      `cbor:"5,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"6,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"7,keyasint,omitempty"`
}

// Component identifies the subsystem that produced an event.
type Component uint8

const (
	// ComponentRadio is the LoRa receive path.
	ComponentRadio Component = iota
	// ComponentLink is the APRS-IS uplink.
	ComponentLink
	// ComponentBeacon is the self-beacon scheduler.
	ComponentBeacon
	// ComponentFTP is the remote configuration access.
	ComponentFTP
	// ComponentGateway is the boot sequencer and scheduler.
	ComponentGateway
)

// String returns the component name.
func (c Component) String() string {
	switch c {
	case ComponentRadio:
		return "RADIO"
	case ComponentLink:
		return "LINK"
	case ComponentBeacon:
		return "BEACON"
	case ComponentFTP:
		return "FTP"
	case ComponentGateway:
		return "GATEWAY"
	default:
		return "UNKNOWN"
	}
}

// Direction indicates packet flow relative to the gateway.
type Direction uint8

const (
	// DirectionIn is traffic received (radio or server).
	DirectionIn Direction = 0
	// DirectionOut is traffic sent to APRS-IS.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// PacketEvent records one APRS packet passing through the gateway.
type PacketEvent struct {
	// Raw is the TNC2 wire form.
	Raw string `cbor:"1,keyasint"`

	// Source and Destination from the packet header.
	Source      string `cbor:"2,keyasint,omitempty"`
	Destination string `cbor:"3,keyasint,omitempty"`

	// Signal quality, present for packets heard on the radio.
	RSSI int     `cbor:"4,keyasint,omitempty"`
	SNR  float64 `cbor:"5,keyasint,omitempty"`

	// Dropped is set when the packet was discarded instead of relayed.
	Dropped bool `cbor:"6,keyasint,omitempty"`
}

// StateChangeEvent records an uplink or scheduler state transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint"`
	NewState string `cbor:"2,keyasint"`
	Reason   string `cbor:"3,keyasint,omitempty"`
}

// ErrorEvent records a non-fatal error.
type ErrorEvent struct {
	Message string `cbor:"1,keyasint"`
	Context string `cbor:"2,keyasint,omitempty"`
}

// NewPacketEvent builds a packet trace event.
func NewPacketEvent(component Component, direction Direction, packet *PacketEvent) Event {
	return Event{
		Timestamp: time.Now(),
		Component: component,
		Direction: direction,
		Packet:    packet,
	}
}

// NewStateChangeEvent builds a state-transition trace event.
func NewStateChangeEvent(component Component, oldState, newState, reason string) Event {
	return Event{
		Timestamp: time.Now(),
		Component: component,
		StateChange: &StateChangeEvent{
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	}
}

// NewErrorEvent builds an error trace event.
func NewErrorEvent(component Component, message, context string) Event {
	return Event{
		Timestamp: time.Now(),
		Component: component,
		Error: &ErrorEvent{
			Message: message,
			Context: context,
		},
	}
}
