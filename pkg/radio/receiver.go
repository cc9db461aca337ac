// Package radio abstracts the LoRa receive path. Modulation and
// demodulation live in the driver behind the Receiver interface; the
// gateway only polls for decoded APRS packets and their signal quality.
package radio

import (
	"errors"
	"fmt"

	"github.com/lora-aprs/igate-go/pkg/aprs"
	"github.com/lora-aprs/igate-go/pkg/config"
)

// Parameter errors.
var (
	ErrBadFrequency       = errors.New("radio: frequency out of range")
	ErrBadSpreadingFactor = errors.New("radio: spreading factor out of range")
	ErrBadCodingRate      = errors.New("radio: coding rate out of range")
)

// Packet is one APRS message heard on the radio together with its signal
// quality metadata.
type Packet struct {
	Msg  *aprs.Message
	RSSI int
	SNR  float64
}

// Receiver is the radio driver surface the gateway polls each tick.
type Receiver interface {
	// Begin initializes the radio with the given parameters. Failure is
	// fatal for the device.
	Begin(params Params) error

	// HasMessage reports whether a decoded packet is waiting.
	HasMessage() bool

	// Message returns the next decoded packet. Only valid immediately
	// after HasMessage returned true.
	Message() *Packet
}

// Params are the modulation settings handed to the driver.
type Params struct {
	FrequencyRx     int64
	FrequencyTx     int64
	Power           int
	SpreadingFactor int
	SignalBandwidth int64
	CodingRate      int
}

// ParamsFromConfig extracts the radio parameters from the configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		FrequencyRx:     cfg.LoRa.FrequencyRx,
		FrequencyTx:     cfg.LoRa.FrequencyTx,
		Power:           cfg.LoRa.Power,
		SpreadingFactor: cfg.LoRa.SpreadingFactor,
		SignalBandwidth: cfg.LoRa.SignalBandwidth,
		CodingRate:      cfg.LoRa.CodingRate,
	}
}

// Validate rejects parameter combinations no driver can program.
func (p Params) Validate() error {
	if p.FrequencyRx <= 0 || p.FrequencyTx <= 0 {
		return ErrBadFrequency
	}
	if p.SpreadingFactor < 6 || p.SpreadingFactor > 12 {
		return fmt.Errorf("%w: %d", ErrBadSpreadingFactor, p.SpreadingFactor)
	}
	if p.CodingRate < 5 || p.CodingRate > 8 {
		return fmt.Errorf("%w: %d", ErrBadCodingRate, p.CodingRate)
	}
	return nil
}
