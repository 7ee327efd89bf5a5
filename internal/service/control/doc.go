// Package control implements the control node.
//
// The node owns the stored credential, the lock motor and the alarm buzzer.
// At boot it runs the credential setup exchange, then serves commands from
// the interface node forever: credential checks are answered with one
// outcome byte, door and alarm requests run their timed sequences without a
// reply, and a change request repeats the setup exchange.
package control
