package console

import (
	"go.uber.org/zap"

	"github.com/oshokin/door-lock/internal/hal"
)

// Motor logs drive requests instead of moving anything.
type Motor struct {
	log *zap.SugaredLogger
}

// NewMotor creates a logging motor.
func NewMotor(log *zap.SugaredLogger) *Motor {
	return &Motor{log: log.Named("motor")}
}

// Drive logs the requested direction and speed.
func (m *Motor) Drive(dir hal.Direction, speedPercent uint8) error {
	m.log.Infow("Motor drive", "direction", dir.String(), "speed_percent", speedPercent)

	return nil
}

// Buzzer logs alarm output changes.
type Buzzer struct {
	log *zap.SugaredLogger
}

// NewBuzzer creates a logging buzzer.
func NewBuzzer(log *zap.SugaredLogger) *Buzzer {
	return &Buzzer{log: log.Named("buzzer")}
}

// Assert logs the buzzer turning on.
func (b *Buzzer) Assert() error {
	b.log.Warn("Buzzer on")

	return nil
}

// Deassert logs the buzzer turning off.
func (b *Buzzer) Deassert() error {
	b.log.Info("Buzzer off")

	return nil
}
