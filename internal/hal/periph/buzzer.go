package periph

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Buzzer drives an active buzzer wired to a single output pin.
type Buzzer struct {
	pin gpio.PinOut
}

// NewBuzzer wraps pin and drives it low.
func NewBuzzer(pin gpio.PinOut) (*Buzzer, error) {
	b := &Buzzer{pin: pin}

	if err := b.Deassert(); err != nil {
		return nil, err
	}

	return b, nil
}

// OpenBuzzer resolves the named pin and wraps it.
func OpenBuzzer(name string) (*Buzzer, error) {
	p, err := pinByName(name)
	if err != nil {
		return nil, err
	}

	return NewBuzzer(p)
}

// Assert turns the buzzer on.
func (b *Buzzer) Assert() error {
	if err := b.pin.Out(gpio.High); err != nil {
		return fmt.Errorf("buzzer %s on: %w", b.pin, err)
	}

	return nil
}

// Deassert turns the buzzer off.
func (b *Buzzer) Deassert() error {
	if err := b.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("buzzer %s off: %w", b.pin, err)
	}

	return nil
}
