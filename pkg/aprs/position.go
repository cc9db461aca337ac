package aprs

import (
	"fmt"
	"math"
)

// Symbol bytes for the gateway position report: the "&" gateway diamond
// with the "I" alternate-table overlay, rendering as an igate symbol on
// APRS maps.
const (
	symbolTable = 'I'
	symbolCode  = '&'
)

// NewPositionReport builds the gateway's own beacon message: a position
// report with the gateway symbol and a free-text comment. The message is
// built once at boot and reused for every beacon transmission.
func NewPositionReport(callsign, tocall string, lat, lng float64, comment string) *Message {
	body := fmt.Sprintf("=%s%c%s%c%s", FormatLatitude(lat), symbolTable, FormatLongitude(lng), symbolCode, comment)
	return NewMessage(callsign, tocall, body)
}

// FormatLatitude renders a decimal latitude as APRS ddmm.hh with an N/S
// suffix, e.g. 48.2084 -> "4812.50N".
func FormatLatitude(lat float64) string {
	hemisphere := byte('N')
	if lat < 0 {
		hemisphere = 'S'
	}
	lat = math.Abs(lat)
	deg := int(lat)
	min := (lat - float64(deg)) * 60.0
	return fmt.Sprintf("%02d%05.2f%c", deg, min, hemisphere)
}

// FormatLongitude renders a decimal longitude as APRS dddmm.hh with an E/W
// suffix, e.g. 14.2426 -> "01414.56E".
func FormatLongitude(lng float64) string {
	hemisphere := byte('E')
	if lng < 0 {
		hemisphere = 'W'
	}
	lng = math.Abs(lng)
	deg := int(lng)
	min := (lng - float64(deg)) * 60.0
	return fmt.Sprintf("%03d%05.2f%c", deg, min, hemisphere)
}
