package eeprom

import "sync"

// Memory is a volatile EEPROM image.
type Memory struct {
	mu    sync.RWMutex
	cells [Size]byte
}

// NewMemory returns an erased image.
func NewMemory() *Memory {
	m := new(Memory)
	for i := range m.cells {
		m.cells[i] = erased
	}

	return m
}

// WriteByteAt stores value at addr.
func (m *Memory) WriteByteAt(addr uint16, value byte) error {
	if err := checkAddress(addr); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cells[addr] = value

	return nil
}

// ReadByteAt returns the byte at addr.
func (m *Memory) ReadByteAt(addr uint16) (byte, error) {
	if err := checkAddress(addr); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.cells[addr], nil
}
