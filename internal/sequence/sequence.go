package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/timer"
)

// DefaultPollInterval is how often a spin-wait checks the elapsed-interval count.
const DefaultPollInterval = 10 * time.Millisecond

// Phase is one timed step of a sequence.
type Phase struct {
	// Name identifies the phase in logs.
	Name string
	// Enter runs before the timer is armed. It may be nil.
	Enter func() error
	// Compare is the timer compare value for one interval.
	Compare uint16
	// Repeats is the number of intervals the phase lasts.
	Repeats uint32
}

// Runner executes phases on a node timer.
type Runner struct {
	// timer is the node's only interval timer.
	timer timer.Timer
	// clockHz is the node clock used to report durations.
	clockHz uint64
	// poll is the spin-wait poll period.
	poll time.Duration
}

// NewRunner creates a runner on t for a node clocked at clockHz.
func NewRunner(t timer.Timer, clockHz uint64, poll time.Duration) *Runner {
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	return &Runner{
		timer:   t,
		clockHz: clockHz,
		poll:    poll,
	}
}

// Run executes phases in order. The elapsed-interval count is owned by this call:
// it is handed to the timer callback and never outlives the sequence.
//
// A failing Enter is logged and the phase still runs for its full duration, keeping
// the sequence in step with the peer node. Only ctx cancellation stops it early.
func (r *Runner) Run(ctx context.Context, name string, phases []Phase) error {
	ctx = logger.WithKV(ctx, "sequence", name)

	elapsed := new(timer.Counter)
	r.timer.RegisterCallback(elapsed.Increment)

	defer r.timer.RegisterCallback(nil)

	started := time.Now()
	logger.DebugKV(ctx, "Sequence started", "phases", len(phases), "tick", timer.TickPeriod(r.clockHz, Prescaler).String())

	for _, p := range phases {
		if err := r.runPhase(ctx, elapsed, p); err != nil {
			return fmt.Errorf("%s: phase %s: %w", name, p.Name, err)
		}
	}

	logger.DebugKV(ctx, "Sequence finished", "took", time.Since(started).String())

	return nil
}

func (r *Runner) runPhase(ctx context.Context, elapsed *timer.Counter, p Phase) error {
	if p.Enter != nil {
		if err := p.Enter(); err != nil {
			logger.WarnKV(ctx, "Phase action failed", "phase", p.Name, "error", err)
		}
	}

	cfg := timer.Config{
		CompareThreshold: p.Compare,
		Prescaler:        Prescaler,
		Mode:             timer.ModeCompare,
	}

	if err := r.timer.Configure(cfg); err != nil {
		return fmt.Errorf("arm timer: %w", err)
	}

	logger.DebugKV(ctx, "Phase started", "phase", p.Name, "duration", PhaseDuration(r.clockHz, p).String())

	err := timer.WaitFor(ctx, elapsed, p.Repeats, r.poll)

	r.timer.Stop()
	elapsed.ReadAndReset()

	return err
}

// PhaseDuration is the realized duration of p on a node clocked at clockHz.
func PhaseDuration(clockHz uint64, p Phase) time.Duration {
	_, period, err := timer.Intervals(clockHz, timer.Config{
		CompareThreshold: p.Compare,
		Prescaler:        Prescaler,
		Mode:             timer.ModeCompare,
	})
	if err != nil {
		return 0
	}

	return period * time.Duration(p.Repeats)
}

// Duration is the realized duration of all phases.
func Duration(clockHz uint64, phases []Phase) time.Duration {
	var total time.Duration
	for _, p := range phases {
		total += PhaseDuration(clockHz, p)
	}

	return total
}
