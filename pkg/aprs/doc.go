// Package aprs provides the APRS message value type shared by the radio
// receiver, the APRS-IS uplink and the beacon scheduler.
//
// Messages are immutable after construction and safe to share by pointer
// between the receive path and the send path. The wire form is the TNC2
// monitor format used by APRS-IS:
//
//	SOURCE>DESTINATION,PATH:body
//
// The package also carries the position-report body builder used for the
// gateway's own beacon and the APRS-IS login passcode derivation.
package aprs
