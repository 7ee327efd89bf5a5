// Package periph implements the hal capabilities on real peripherals through
// periph.io: an active buzzer and an H-bridge DC motor on GPIO pins, and a
// 24Cxx external EEPROM on an I²C bus.
package periph
