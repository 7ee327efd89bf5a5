// Package hal declares the capabilities the node state machines need from the
// hardware around them: motor, alarm output, byte-addressable storage,
// character display and keypad.
//
// The interfaces are narrow on purpose. Implementations live in subpackages:
// periph drives real GPIO and I²C peripherals, console maps them onto a
// terminal for development and simulation.
package hal
