// Package board resolves the hardware board the gateway runs on. The
// board decides which network interface the connectivity check watches
// and which pins the radio and display use.
package board

import (
	"errors"
	"strings"
)

// Kind groups boards by their uplink hardware.
type Kind int

const (
	// KindWifi boards reach the network over the WiFi modem.
	KindWifi Kind = iota
	// KindEthernet boards carry a wired PHY and ignore the WiFi
	// credentials entirely.
	KindEthernet
)

func (k Kind) String() string {
	switch k {
	case KindWifi:
		return "wifi"
	case KindEthernet:
		return "ethernet"
	default:
		return "unknown"
	}
}

// Config describes one supported board.
type Config struct {
	Name string
	Kind Kind

	// OLEDAddress is the I2C address probed during auto detection;
	// zero when the board has no display bus.
	OLEDAddress byte

	// LoraReset distinguishes otherwise identical boards during
	// probing.
	LoraReset int
}

// ErrBoardUnknown is returned when a configured board name matches no
// supported board.
var ErrBoardUnknown = errors.New("board: unknown board")

// Prober reports which hardware responds during auto detection.
// Implementations touch the I2C and SPI buses; tests fake them.
type Prober interface {
	// ModemPresent reports whether the LoRa modem answers on the
	// board's pinout. The reset pin differs between boards, so a
	// positive probe identifies the board.
	ModemPresent(b Config) bool
}

// Finder resolves a board either from its configured name or by probing
// the hardware.
type Finder struct {
	boards []Config
	prober Prober
}

// NewFinder creates a finder over the supported board list. A nil
// prober disables Search.
func NewFinder(prober Prober) *Finder {
	return &Finder{
		boards: supportedBoards,
		prober: prober,
	}
}

// Boards returns the supported board list.
func (f *Finder) Boards() []Config {
	return f.boards
}

// Get resolves a board by its configured name. Matching ignores case.
func (f *Finder) Get(name string) (Config, error) {
	for _, b := range f.boards {
		if strings.EqualFold(b.Name, name) {
			return b, nil
		}
	}
	return Config{}, ErrBoardUnknown
}

// Search probes the hardware and returns the first board whose modem
// answers. It is used on first boot when no board is configured.
func (f *Finder) Search() (Config, bool) {
	if f.prober == nil {
		return Config{}, false
	}
	for _, b := range f.boards {
		if f.prober.ModemPresent(b) {
			return b, true
		}
	}
	return Config{}, false
}

var supportedBoards = []Config{
	{Name: "TTGO_LORA32_V1", Kind: KindWifi, OLEDAddress: 0x3c, LoraReset: 14},
	{Name: "TTGO_LORA32_V2", Kind: KindWifi, OLEDAddress: 0x3c, LoraReset: 23},
	{Name: "TTGO_T_Beam_V0_7", Kind: KindWifi, OLEDAddress: 0x3c, LoraReset: 23},
	{Name: "TTGO_T_Beam_V1_0", Kind: KindWifi, OLEDAddress: 0x3c, LoraReset: 23},
	{Name: "ETH_BOARD", Kind: KindEthernet, OLEDAddress: 0x3c, LoraReset: 0},
}
