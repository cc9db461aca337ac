// Package discovery implements mDNS/DNS-SD announcement for the gateway.
//
// Two service types are advertised:
//
// # Gateway Discovery (_aprs-igate._tcp)
//
// Every running gateway announces itself so that other stations on the
// LAN can find it. Instance name is the callsign. TXT records include:
// call (callsign with SSID), vers (software version), freq (RX frequency
// in Hz).
//
// # Remote Configuration (_ftp._tcp)
//
// Advertised only while the FTP configuration server is active, so that
// standard clients can locate the configuration share without knowing
// the gateway's address.
//
// Discovery is best-effort: registration failures are reported to the
// caller but never stop the gateway from operating.
package discovery
