// Package eeprom implements byte-addressable persistent memory images.
//
// FileImage keeps a 24C16-sized image in a file so a control node running
// without an I²C EEPROM still survives restarts; Memory is the volatile
// variant used by the simulator and tests. Both satisfy hal.Storage and read
// 0xFF from cells never written, like an erased device.
package eeprom
