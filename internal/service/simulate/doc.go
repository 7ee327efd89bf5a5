// Package simulate runs both nodes of the door lock in one process.
//
// The nodes talk over an in-memory pipe. The interface node uses the
// terminal as its display and keypad; the control node logs motor and
// buzzer activity and keeps its credential in memory or in an EEPROM image.
package simulate
