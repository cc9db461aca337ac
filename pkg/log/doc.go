// Package log provides structured event logging for the gateway.
//
// It defines the Logger interface and Event types for capturing what the
// gateway does: packets heard on the radio, traffic relayed to APRS-IS,
// uplink state changes and errors. It is separate from operational logging
// (slog) - the event trace is machine readable and complete, while slog
// output is for humans watching the console.
//
// Applications pick an implementation:
//
//	// Development: events on the console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Production: append to a binary trace file
//	logger, _ := log.NewFileLogger("/var/log/igate/events.ilog")
//
//	// Both at once
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// Trace files use CBOR encoding with integer keys; see EncodeEvent.
package log
