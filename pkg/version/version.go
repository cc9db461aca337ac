// Package version holds the identity the gateway reports to the APRS-IS
// network, the mDNS announcement and the startup banner.
package version

// SoftwareName is the software identifier sent in the APRS-IS login line.
const SoftwareName = "Go-APRS-iGate"

// SoftwareVersion is the release version.
const SoftwareVersion = "1.2.0"

// TocallDestination is the APRS destination callsign assigned to this
// software family. Beacons are addressed to it.
const TocallDestination = "APLG01"

// Banner returns the one-line startup banner.
func Banner() string {
	return SoftwareName + " " + SoftwareVersion
}
