// Package protocol implements the Command Channel spoken between the
// interface node and the control node.
//
// The wire format is unframed: command and outcome codes travel as single
// bytes and a credential travels as its digits followed by '#' and a NUL
// string terminator. Both ends must agree on what follows each command, so
// the state machines work on typed Messages and the Channel reads exactly
// the kind of message the caller expects next.
package protocol
