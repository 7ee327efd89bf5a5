package periph

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

const (
	// DefaultEEPROMAddress is the 7-bit bus address of a 24C16 with A2..A0 grounded.
	DefaultEEPROMAddress uint16 = 0x50

	// eepromSize is the 24C16 capacity: eight 256-byte blocks.
	eepromSize = 2048
)

// ErrAddressRange is returned for a memory address outside the device.
var ErrAddressRange = errors.New("eeprom address out of range")

// EEPROM is a 24C16 external EEPROM.
// The upper three bits of the 11-bit memory address select the block through the device address.
type EEPROM struct {
	bus  i2c.Bus
	base uint16
}

// NewEEPROM wraps a bus with the device at base address.
func NewEEPROM(bus i2c.Bus, base uint16) *EEPROM {
	return &EEPROM{
		bus:  bus,
		base: base,
	}
}

// OpenEEPROM opens the named bus ("" selects the first one) and wraps it.
// Close the returned closer when done.
func OpenEEPROM(busName string, base uint16) (*EEPROM, i2c.BusCloser, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	return NewEEPROM(bus, base), bus, nil
}

// WriteByteAt writes one byte. The device needs its write cycle time before the next access.
func (e *EEPROM) WriteByteAt(addr uint16, value byte) error {
	dev, err := e.device(addr)
	if err != nil {
		return err
	}

	if err = dev.Tx([]byte{byte(addr), value}, nil); err != nil {
		return fmt.Errorf("eeprom write %#04x: %w", addr, err)
	}

	return nil
}

// ReadByteAt reads one byte with a random-read transaction.
func (e *EEPROM) ReadByteAt(addr uint16) (byte, error) {
	dev, err := e.device(addr)
	if err != nil {
		return 0, err
	}

	var r [1]byte

	if err = dev.Tx([]byte{byte(addr)}, r[:]); err != nil {
		return 0, fmt.Errorf("eeprom read %#04x: %w", addr, err)
	}

	return r[0], nil
}

// device returns the bus device serving the block holding addr.
func (e *EEPROM) device(addr uint16) (*i2c.Dev, error) {
	if addr >= eepromSize {
		return nil, fmt.Errorf("%w: %#04x", ErrAddressRange, addr)
	}

	return &i2c.Dev{
		Bus:  e.bus,
		Addr: e.base | (addr>>8)&0x07,
	}, nil
}
