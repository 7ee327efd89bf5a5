// Package credential defines the shared secret both nodes agree on: a fixed
// sequence of five decimal digits compared byte-for-byte, plus the Entry
// accumulator the interface node feeds from the keypad.
package credential
