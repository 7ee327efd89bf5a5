// Package sequence runs timed actuation sequences on a node's interval timer.
//
// A sequence is a list of phases. Each phase performs its action, arms the
// timer with its compare value, spin-waits until the elapsed-interval count
// reaches the phase's repeat count, disarms the timer and resets the count.
// The compare values are pre-computed constants for each node clock so both
// nodes agree on every duration without talking to each other.
package sequence
