package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	event := NewPacketEvent(ComponentRadio, DirectionIn, &PacketEvent{
		Raw:    "OE5BPA-7>APRS:!4812.50N/01414.56E>",
		Source: "OE5BPA-7",
		RSSI:   -97,
		SNR:    4.5,
	})

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}

	if decoded.Component != ComponentRadio {
		t.Errorf("Component = %v", decoded.Component)
	}
	if decoded.Packet == nil {
		t.Fatal("Packet payload lost")
	}
	if decoded.Packet.Raw != event.Packet.Raw {
		t.Errorf("Raw = %q", decoded.Packet.Raw)
	}
	if decoded.Packet.RSSI != -97 {
		t.Errorf("RSSI = %d", decoded.Packet.RSSI)
	}
	if !decoded.Timestamp.Truncate(time.Millisecond).Equal(event.Timestamp.Truncate(time.Millisecond)) {
		t.Errorf("Timestamp = %v, want %v", decoded.Timestamp, event.Timestamp)
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ilog")

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}

	l.Log(NewStateChangeEvent(ComponentLink, "DISCONNECTED", "CONNECTED", "login ok"))
	l.Log(NewErrorEvent(ComponentLink, "write failed", "relay"))
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Log after close must be a silent no-op.
	l.Log(NewErrorEvent(ComponentLink, "after close", ""))
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec := NewDecoder(f)
	var events []Event
	for {
		var e Event
		if err := dec.Decode(&e); err != nil {
			break
		}
		events = append(events, e)
	}

	if len(events) != 2 {
		t.Fatalf("decoded %d events, want 2", len(events))
	}
	if events[0].StateChange == nil || events[0].StateChange.NewState != "CONNECTED" {
		t.Errorf("event 0 = %+v", events[0])
	}
	if events[1].Error == nil || events[1].Error.Message != "write failed" {
		t.Errorf("event 1 = %+v", events[1])
	}
}

func TestMultiLogger(t *testing.T) {
	var a, b countingLogger
	m := NewMultiLogger(&a, &b)

	m.Log(NewErrorEvent(ComponentGateway, "x", ""))
	m.Log(NewErrorEvent(ComponentGateway, "y", ""))

	if a.n != 2 || b.n != 2 {
		t.Errorf("counts = %d, %d, want 2, 2", a.n, b.n)
	}
}

type countingLogger struct{ n int }

func (c *countingLogger) Log(Event) { c.n++ }
