package hal

import (
	"context"
	"fmt"
)

// Direction is the motor drive direction.
type Direction uint8

const (
	// Stop brakes the motor.
	Stop Direction = iota
	// Forward rotates clockwise, unlocking the door.
	Forward
	// Reverse rotates anti-clockwise, locking the door.
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Stop:
		return "stop"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// MaxSpeed is the full-speed duty in percent.
const MaxSpeed uint8 = 100

// Motor drives the lock mechanism.
type Motor interface {
	Drive(dir Direction, speedPercent uint8) error
}

// Alarm is the audible alarm output.
type Alarm interface {
	Assert() error
	Deassert() error
}

// Storage is byte-addressable persistent memory.
// Callers wait the device settle delay between accesses.
type Storage interface {
	WriteByteAt(addr uint16, value byte) error
	ReadByteAt(addr uint16) (byte, error)
}

// Display is a character display with a movable cursor.
type Display interface {
	Clear() error
	MoveCursor(row, col int) error
	DisplayText(s string) error
	DisplayChar(c byte) error
}

// KeyEnter is the key code that accepts an entry.
const KeyEnter byte = 13

// Keypad yields one debounced key per call and blocks until a key is pressed.
type Keypad interface {
	ReadKey(ctx context.Context) (byte, error)
}
