package discovery

import (
	"errors"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeGateway is the service type announced by every gateway.
	ServiceTypeGateway = "_aprs-igate._tcp"

	// ServiceTypeFTP is the standard FTP service type, announced while the
	// remote configuration server is active.
	ServiceTypeFTP = "_ftp._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultFTPPort is the port the configuration server listens on.
	DefaultFTPPort = 21
)

// TXT record key constants.
const (
	TXTKeyCallsign  = "call" // callsign with SSID (required)
	TXTKeyVersion   = "vers" // software version (optional)
	TXTKeyFrequency = "freq" // RX frequency in Hz (optional)
)

// DefaultTTL is the DNS record TTL for announcements.
const DefaultTTL = 120 * time.Second

// Discovery errors.
var (
	ErrNotFound        = errors.New("discovery: service not found")
	ErrMissingRequired = errors.New("discovery: missing required TXT key")
	ErrInvalidTXT      = errors.New("discovery: invalid TXT value")
)

// GatewayInfo describes the local gateway's announcement.
type GatewayInfo struct {
	// Callsign is the gateway callsign including SSID. Also used as the
	// mDNS instance name.
	Callsign string

	// Version is the software version string.
	Version string

	// Frequency is the RX frequency in Hz.
	Frequency int64

	// Port is the TCP port carried in the SRV record.
	Port uint16
}

// GatewayService is a gateway found on the network.
type GatewayService struct {
	InstanceName string
	Host         string
	Port         uint16
	Addresses    []string

	Callsign  string
	Version   string
	Frequency int64
}
