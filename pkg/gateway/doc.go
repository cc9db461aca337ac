// Package gateway wires the collaborators into the running device: the
// fixed task roster, the radio-to-backend relay, the remote-session
// restart guard and the boot sequencer with its fail-stop gate.
//
// Everything here runs on the cooperative scheduler: one goroutine walks
// the task list, each task's Loop does a bounded slice of work and
// returns. The only other goroutines are the 1 Hz counter ticker and the
// backend link's reader, both of which communicate through non-blocking
// surfaces.
package gateway
