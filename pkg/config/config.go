// Package config loads and persists the gateway configuration file.
//
// The configuration is read once at boot and treated as immutable for the
// rest of the run; the single exception is the board name, which is written
// back after first-boot board detection. Every task receives the same
// *Config and must not modify it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultCallsign is the placeholder shipped in the example configuration.
// Booting with it still in place is a fatal configuration error.
const DefaultCallsign = "NOCALL-10"

// Validation errors.
var (
	ErrDefaultCallsign = errors.New("config: callsign still set to the shipped default")
	ErrNoUplink        = errors.New("config: aprs_is.active requires wifi.active or an ethernet board")
)

// Config is the gateway configuration. Field names mirror the on-device
// configuration file of the original firmware.
type Config struct {
	Callsign  string `yaml:"callsign"`
	Board     string `yaml:"board"`
	NTPServer string `yaml:"ntp_server"`

	Wifi    Wifi    `yaml:"wifi"`
	APRSIS  APRSIS  `yaml:"aprs_is"`
	FTP     FTP     `yaml:"ftp"`
	Display Display `yaml:"display"`
	LoRa    LoRa    `yaml:"lora"`
	Beacon  Beacon  `yaml:"beacon"`
}

// Wifi holds the WLAN uplink settings.
type Wifi struct {
	Active bool          `yaml:"active"`
	APs    []AccessPoint `yaml:"aps"`
}

// AccessPoint is one WLAN network the gateway may associate with.
type AccessPoint struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// APRSIS holds the backend uplink settings.
type APRSIS struct {
	Active   bool   `yaml:"active"`
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`

	// Beacon enables the gateway's own periodic position report.
	Beacon bool `yaml:"beacon"`

	// BeaconTimeout is the beacon interval in minutes.
	BeaconTimeout int `yaml:"beacon_timeout"`
}

// FTP holds the remote configuration-access settings.
type FTP struct {
	Active bool      `yaml:"active"`
	Users  []FTPUser `yaml:"users"`
}

// FTPUser is one remote-access account.
type FTPUser struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

// Display holds the on-device display policy.
type Display struct {
	AlwaysOn     bool `yaml:"always_on"`
	Timeout      int  `yaml:"timeout"`
	OverwritePin int  `yaml:"overwrite_pin"`
}

// LoRa holds the radio parameters.
type LoRa struct {
	FrequencyRx     int64 `yaml:"frequency_rx"`
	FrequencyTx     int64 `yaml:"frequency_tx"`
	Power           int   `yaml:"power"`
	SpreadingFactor int   `yaml:"spreading_factor"`
	SignalBandwidth int64 `yaml:"signal_bandwidth"`
	CodingRate      int   `yaml:"coding_rate"`
}

// Beacon holds the gateway's own position report.
type Beacon struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Message   string  `yaml:"message"`
}

// Default returns the configuration shipped with the firmware image.
func Default() *Config {
	return &Config{
		Callsign:  DefaultCallsign,
		NTPServer: "pool.ntp.org",
		APRSIS: APRSIS{
			Active:        true,
			Server:        "euro.aprs2.net",
			Port:          14580,
			Beacon:        true,
			BeaconTimeout: 15,
		},
		Display: Display{
			Timeout: 10,
		},
		LoRa: LoRa{
			FrequencyRx:     433775000,
			FrequencyTx:     433775000,
			Power:           20,
			SpreadingFactor: 12,
			SignalBandwidth: 125000,
			CodingRate:      5,
		},
		Beacon: Beacon{
			Message: "LoRa iGate",
		},
	}
}

// Load reads the configuration file at path. Missing fields keep their
// Default() values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration back to path. Only first-boot board
// detection uses this; everything else treats the file as read-only.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings that make the device unable to do its job.
// These are fail-stop conditions; the boot sequencer halts on any of them.
// ethernet reports whether the resolved board has a wired uplink.
func (c *Config) Validate(ethernet bool) error {
	if c.Callsign == "" || c.Callsign == DefaultCallsign {
		return ErrDefaultCallsign
	}
	if c.APRSIS.Active && !c.Wifi.Active && !ethernet {
		return ErrNoUplink
	}
	return nil
}

// BeaconInterval returns the beacon interval in seconds.
func (c *Config) BeaconInterval() uint {
	return uint(c.APRSIS.BeaconTimeout) * 60
}
