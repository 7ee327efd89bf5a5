package periph

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// errPinNotFound is returned when a configured pin name is not registered.
var errPinNotFound = errors.New("gpio pin not found")

// Init loads the host drivers. Call it once before opening pins or buses.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init periph host: %w", err)
	}

	return nil
}

// pinByName looks a pin up in the gpio registry.
func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", errPinNotFound, name)
	}

	return p, nil
}
