//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/hal"
	"github.com/oshokin/door-lock/internal/hal/console"
	"github.com/oshokin/door-lock/internal/hal/periph"
	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/repository/eeprom"
)

// errUnknownStorageKind is returned for an unsupported storage kind.
var errUnknownStorageKind = errors.New("unknown storage kind")

// nopCloser closes nothing.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStorage returns the credential storage device described by cfg.
// The closer releases the bus for I2C devices and is a no-op otherwise.
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (hal.Storage, io.Closer, error) {
	switch cfg.Kind {
	case config.StorageFile:
		logger.InfoKV(ctx, "Using EEPROM image file", "path", cfg.Path)

		return eeprom.NewFileImage(cfg.Path), nopCloser{}, nil
	case config.StorageMemory:
		logger.Warn(ctx, "Using volatile memory for the credential, it is lost on exit")

		return eeprom.NewMemory(), nopCloser{}, nil
	case config.StorageI2C:
		if err := periph.Init(); err != nil {
			return nil, nil, err
		}

		device, bus, err := periph.OpenEEPROM(cfg.I2CBus, cfg.I2CAddress)
		if err != nil {
			return nil, nil, err
		}

		logger.InfoKV(ctx, "Using I2C EEPROM", "bus", cfg.I2CBus, "address", fmt.Sprintf("%#02x", cfg.I2CAddress))

		return device, bus, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnknownStorageKind, cfg.Kind)
	}
}

// OpenActuators returns the motor and alarm outputs named in cfg.
// Outputs without a pin are console stand-ins that log every change.
func OpenActuators(ctx context.Context, cfg config.GPIOConfig) (hal.Motor, hal.Alarm, error) {
	var (
		motor hal.Motor
		alarm hal.Alarm
	)

	log := logger.FromContext(ctx)

	if cfg.HasMotorPins() || cfg.Buzzer != "" {
		if err := periph.Init(); err != nil {
			return nil, nil, err
		}
	}

	if cfg.HasMotorPins() {
		m, err := periph.OpenMotor(cfg.MotorForward, cfg.MotorReverse, cfg.MotorEnable)
		if err != nil {
			return nil, nil, err
		}

		motor = m
	} else {
		motor = console.NewMotor(log)
	}

	if cfg.Buzzer != "" {
		b, err := periph.OpenBuzzer(cfg.Buzzer)
		if err != nil {
			return nil, nil, err
		}

		alarm = b
	} else {
		alarm = console.NewBuzzer(log)
	}

	return motor, alarm, nil
}
