// Package connection supervises the APRS-IS uplink state machine.
//
// The supervisor owns the single connection state (DISCONNECTED, CONNECTING,
// CONNECTED) and guarantees at most one connection attempt in flight. It is
// evaluated once per scheduler tick: when the link is required, the state is
// DISCONNECTED and the retry cooldown has elapsed, it runs the injected
// connect function. A failed attempt arms a fixed 5 second cooldown and the
// supervisor retries forever - no exponential growth, no jitter, no attempt
// cap. Repeated connection failure is an expected steady state, not an
// error tier.
package connection
