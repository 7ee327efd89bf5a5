package timer

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects when the timer notifies.
type Mode uint8

const (
	// ModeNormal is free-running: notify on wraparound from 0xFFFF to 0.
	ModeNormal Mode = iota
	// ModeCompare notifies when the counter reaches CompareThreshold, then reloads to zero.
	ModeCompare
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeCompare:
		return "compare"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Prescaler divides the node clock before it reaches the counter.
type Prescaler uint8

const (
	// NoClock leaves the counter stopped.
	NoClock Prescaler = iota
	// Div1 counts at the node clock.
	Div1
	// Div8 counts at clock/8.
	Div8
	// Div64 counts at clock/64.
	Div64
	// Div256 counts at clock/256.
	Div256
	// Div1024 counts at clock/1024.
	Div1024
)

// Factor returns the clock division factor, or 0 for NoClock.
func (p Prescaler) Factor() uint64 {
	switch p {
	case Div1:
		return 1
	case Div8:
		return 8
	case Div64:
		return 64
	case Div256:
		return 256
	case Div1024:
		return 1024
	default:
		return 0
	}
}

// counterSpan is the number of counts in a full 16-bit cycle.
const counterSpan = 1 << 16

// Config arms the timer.
type Config struct {
	// InitialCount is loaded into the counter when armed.
	InitialCount uint16
	// CompareThreshold is the count that fires a notification in ModeCompare.
	CompareThreshold uint16
	// Prescaler divides the node clock.
	Prescaler Prescaler
	// Mode selects overflow or compare notifications.
	Mode Mode
}

// Callback is invoked once per threshold crossing.
// It runs on the timer's own goroutine and must not block.
type Callback func()

// Timer is the single countdown register a node owns.
type Timer interface {
	// Configure arms the timer, replacing any active configuration.
	Configure(cfg Config) error
	// RegisterCallback installs the only observer, replacing the previous one.
	RegisterCallback(cb Callback)
	// Stop disarms the timer and clears its configuration. It is idempotent.
	Stop()
}

var (
	// ErrInvalidConfig is returned by Configure for a configuration the register cannot realize.
	ErrInvalidConfig = errors.New("invalid timer configuration")
	// ErrThresholdRange is returned when a duration does not fit the 16-bit compare register.
	ErrThresholdRange = errors.New("duration does not fit the compare register")
)

// Intervals returns the delay until the first notification and between later ones.
// A stopped clock yields zero intervals.
func Intervals(clockHz uint64, cfg Config) (first, period time.Duration, err error) {
	factor := cfg.Prescaler.Factor()

	switch {
	case clockHz == 0:
		return 0, 0, fmt.Errorf("%w: zero clock frequency", ErrInvalidConfig)
	case factor == 0 && cfg.Prescaler != NoClock:
		return 0, 0, fmt.Errorf("%w: unknown prescaler %d", ErrInvalidConfig, cfg.Prescaler)
	case factor == 0:
		return 0, 0, nil
	}

	var firstTicks, periodTicks uint64

	switch cfg.Mode {
	case ModeNormal:
		firstTicks = counterSpan - uint64(cfg.InitialCount)
		periodTicks = counterSpan
	case ModeCompare:
		if cfg.InitialCount > cfg.CompareThreshold {
			return 0, 0, fmt.Errorf("%w: initial count %d above threshold %d",
				ErrInvalidConfig, cfg.InitialCount, cfg.CompareThreshold)
		}

		// The counter is zero-based and reloads after matching, so a match at C takes C+1 ticks.
		firstTicks = uint64(cfg.CompareThreshold-cfg.InitialCount) + 1
		periodTicks = uint64(cfg.CompareThreshold) + 1
	default:
		return 0, 0, fmt.Errorf("%w: %s", ErrInvalidConfig, cfg.Mode)
	}

	return ticks(clockHz, factor, firstTicks), ticks(clockHz, factor, periodTicks), nil
}

// CompareThreshold returns the compare value realizing d: round(d·F/P) − 1.
func CompareThreshold(clockHz uint64, p Prescaler, d time.Duration) (uint16, error) {
	factor := p.Factor()
	if clockHz == 0 || factor == 0 || d <= 0 {
		return 0, fmt.Errorf("%w: clock %d Hz, prescaler %d, duration %s", ErrInvalidConfig, clockHz, factor, d)
	}

	num := uint64(d.Nanoseconds()) * clockHz
	den := factor * uint64(time.Second)
	counts := (num + den/2) / den

	if counts == 0 || counts > counterSpan {
		return 0, fmt.Errorf("%w: %s needs %d counts", ErrThresholdRange, d, counts)
	}

	return uint16(counts - 1), nil
}

// TickPeriod returns the duration of one counter tick.
func TickPeriod(clockHz uint64, p Prescaler) time.Duration {
	factor := p.Factor()
	if clockHz == 0 || factor == 0 {
		return 0
	}

	return ticks(clockHz, factor, 1)
}

// ticks converts counter ticks into wall-clock time.
func ticks(clockHz, factor, n uint64) time.Duration {
	return time.Duration(n * factor * uint64(time.Second) / clockHz)
}
