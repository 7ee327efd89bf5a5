// Package console maps the hal capabilities onto a terminal: a two-row
// character display redrawn on every change, a keypad fed from an input
// stream, and motor/alarm outputs that only log what they would do.
//
// It backs the simulator and lets a node run on a development machine with
// no peripherals attached.
package console
