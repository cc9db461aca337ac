package interactive

import (
	"testing"

	"github.com/lora-aprs/igate-go/pkg/discovery"
)

func TestFormatGateway(t *testing.T) {
	svc := &discovery.GatewayService{
		InstanceName: "OE5BPA-10",
		Host:         "igate.local.",
		Port:         21,
		Addresses:    []string{"192.168.1.20"},
		Callsign:     "OE5BPA-10",
		Version:      "1.2.0",
		Frequency:    433775000,
	}

	got := formatGateway(svc)
	want := "OE5BPA-10  igate.local.:21  v1.2.0  433.7750 MHz  [192.168.1.20]"
	if got != want {
		t.Fatalf("formatGateway = %q, want %q", got, want)
	}
}

func TestFormatGatewayOmitsOptionalFields(t *testing.T) {
	svc := &discovery.GatewayService{
		Host:     "igate.local.",
		Port:     21,
		Callsign: "N0CALL-1",
	}

	if got, want := formatGateway(svc), "N0CALL-1  igate.local.:21"; got != want {
		t.Fatalf("formatGateway = %q, want %q", got, want)
	}
}
