package aprs

import "strings"

// Passcode derives the APRS-IS login passcode for a callsign. The SSID is
// ignored; only the base callsign enters the hash.
func Passcode(callsign string) int {
	base := strings.ToUpper(callsign)
	if i := strings.IndexByte(base, '-'); i >= 0 {
		base = base[:i]
	}

	hash := 0x73e2
	for i := 0; i < len(base); i += 2 {
		hash ^= int(base[i]) << 8
		if i+1 < len(base) {
			hash ^= int(base[i+1])
		}
	}
	return hash & 0x7fff
}
