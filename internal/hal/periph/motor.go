package periph

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/oshokin/door-lock/internal/hal"
)

// pwmFrequency is the enable-pin PWM carrier for partial speeds.
const pwmFrequency = 500 * physic.Hertz

var (
	errSpeedRange       = errors.New("speed must be within 0..100 percent")
	errUnknownDirection = errors.New("unknown motor direction")
)

// Motor drives a DC motor through an H-bridge: two direction inputs and an enable input.
type Motor struct {
	forward gpio.PinOut
	reverse gpio.PinOut
	enable  gpio.PinOut
}

// NewMotor wraps the three H-bridge pins and stops the motor.
func NewMotor(forward, reverse, enable gpio.PinOut) (*Motor, error) {
	m := &Motor{
		forward: forward,
		reverse: reverse,
		enable:  enable,
	}

	if err := m.Drive(hal.Stop, 0); err != nil {
		return nil, err
	}

	return m, nil
}

// OpenMotor resolves the named pins and wraps them.
func OpenMotor(forward, reverse, enable string) (*Motor, error) {
	pins := make([]gpio.PinOut, 0, 3)

	for _, name := range []string{forward, reverse, enable} {
		p, err := pinByName(name)
		if err != nil {
			return nil, err
		}

		pins = append(pins, p)
	}

	return NewMotor(pins[0], pins[1], pins[2])
}

// Drive sets the direction inputs, then the enable duty.
func (m *Motor) Drive(dir hal.Direction, speedPercent uint8) error {
	if speedPercent > hal.MaxSpeed {
		return fmt.Errorf("%w: %d", errSpeedRange, speedPercent)
	}

	var in1, in2 gpio.Level

	switch dir {
	case hal.Stop:
		speedPercent = 0
	case hal.Forward:
		in1 = gpio.High
	case hal.Reverse:
		in2 = gpio.High
	default:
		return fmt.Errorf("%w: %s", errUnknownDirection, dir)
	}

	if err := m.forward.Out(in1); err != nil {
		return fmt.Errorf("motor forward pin: %w", err)
	}

	if err := m.reverse.Out(in2); err != nil {
		return fmt.Errorf("motor reverse pin: %w", err)
	}

	var err error

	switch speedPercent {
	case 0:
		err = m.enable.Out(gpio.Low)
	case hal.MaxSpeed:
		err = m.enable.Out(gpio.High)
	default:
		err = m.enable.PWM(gpio.DutyMax*gpio.Duty(speedPercent)/gpio.Duty(hal.MaxSpeed), pwmFrequency)
	}

	if err != nil {
		return fmt.Errorf("motor enable pin: %w", err)
	}

	return nil
}
