package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	domain "github.com/oshokin/door-lock/internal/domain/credential"
	"github.com/oshokin/door-lock/internal/domain/lock"
	"github.com/oshokin/door-lock/internal/hal"
	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/protocol"
	repository "github.com/oshokin/door-lock/internal/repository/credential"
	"github.com/oshokin/door-lock/internal/sequence"
	"github.com/oshokin/door-lock/internal/timer"
)

// Deps are the collaborators of a control node.
type Deps struct {
	// Link carries the Command Channel.
	Link io.ReadWriter
	// Store persists the credential.
	Store *repository.Store
	// Motor drives the lock.
	Motor hal.Motor
	// Alarm is the buzzer.
	Alarm hal.Alarm
	// Timer paces the door and alarm sequences.
	Timer timer.Timer
	// PollInterval is the spin-wait poll period; zero selects the default.
	PollInterval time.Duration
}

// Node is the control node state machine.
type Node struct {
	// ch is the Command Channel to the interface node.
	ch *protocol.Channel
	// store persists the credential.
	store *repository.Store
	// motor drives the lock.
	motor hal.Motor
	// alarm is the buzzer.
	alarm hal.Alarm
	// runner executes timed sequences on the node timer.
	runner *sequence.Runner
	// status is what the status API reports.
	status *tracker
}

// NewNode wires a control node.
func NewNode(deps Deps) *Node {
	return &Node{
		ch:     protocol.NewChannel(deps.Link),
		store:  deps.Store,
		motor:  deps.Motor,
		alarm:  deps.Alarm,
		runner: sequence.NewRunner(deps.Timer, sequence.ControlClockHz, deps.PollInterval),
		status: newTracker(),
	}
}

// Run performs the boot setup exchange and then serves commands until the link
// fails, storage fails, or ctx is canceled.
func (n *Node) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "control")

	set, err := n.store.IsSet(ctx)
	if err != nil {
		return n.stopped(ctx, fmt.Errorf("probe credential: %w", err))
	}

	n.status.update(func(s *lock.Status) {
		s.CredentialSet = set
	})

	logger.InfoKV(ctx, "Control node started", "credential_set", set)

	if err = n.setup(ctx); err != nil {
		return n.stopped(ctx, err)
	}

	for {
		if err = n.serve(ctx); err != nil {
			return n.stopped(ctx, err)
		}
	}
}

// stopped prefers the cancellation cause over the link error it provoked.
func (n *Node) stopped(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	logger.ErrorKV(ctx, "Control node stopped", "error", err)

	return err
}

// serve receives and dispatches one command.
func (n *Node) serve(ctx context.Context) error {
	n.status.setState(lock.StateAwaitingCommand)

	cmd, err := n.ch.ReceiveCommand()

	switch {
	case errors.Is(err, protocol.ErrUnknownCommand):
		logger.WarnKV(ctx, "Ignoring unknown command byte", "command", cmd.String())
		n.status.update(func(s *lock.Status) {
			s.Counters.IgnoredBytes++
		})

		return nil
	case err != nil:
		return err
	}

	logger.DebugKV(ctx, "Command received", "command", cmd.String())

	switch cmd {
	case protocol.CheckPass:
		return n.checkPass(ctx)
	case protocol.OpenDoor:
		return n.openDoor(ctx)
	case protocol.ChangePass:
		return n.setup(ctx)
	case protocol.IncorrectPass:
		return n.raiseAlarm(ctx)
	}

	return nil
}

// receiveCredential reads one payload. A malformed payload is reported as not ok
// rather than as an error so it can be answered like a mismatch.
func (n *Node) receiveCredential(ctx context.Context) (domain.Credential, bool, error) {
	c, err := n.ch.ReceiveCredential()

	switch {
	case err == nil:
		return c, true, nil
	case errors.Is(err, protocol.ErrMalformedPayload), errors.Is(err, protocol.ErrPayloadTooLong):
		logger.WarnKV(ctx, "Malformed credential payload", "error", err)

		return c, false, nil
	default:
		return c, false, err
	}
}

// setup receives credential pairs until both entries match, replies to each pair,
// and persists the matching credential.
func (n *Node) setup(ctx context.Context) error {
	n.status.setState(lock.StateSetup)

	for {
		first, firstOK, err := n.receiveCredential(ctx)
		if err != nil {
			return err
		}

		second, secondOK, err := n.receiveCredential(ctx)
		if err != nil {
			return err
		}

		match := firstOK && secondOK && first == second

		n.status.update(func(s *lock.Status) {
			s.Counters.SetupAttempts++
		})

		if err = n.ch.SendOutcome(match); err != nil {
			return err
		}

		if !match {
			logger.Info(ctx, "Credential entries do not match")

			continue
		}

		if err = n.store.Save(first); err != nil {
			return fmt.Errorf("persist credential: %w", err)
		}

		n.status.update(func(s *lock.Status) {
			s.CredentialSet = true
			s.Counters.CredentialChanges++
		})

		logger.Info(ctx, "Credential saved")

		return nil
	}
}

// checkPass compares one received credential with the stored one and replies.
func (n *Node) checkPass(ctx context.Context) error {
	n.status.setState(lock.StateChecking)

	offered, ok, err := n.receiveCredential(ctx)
	if err != nil {
		return err
	}

	stored, err := n.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}

	match := ok && offered == stored

	if err = n.ch.SendOutcome(match); err != nil {
		return err
	}

	n.status.update(func(s *lock.Status) {
		if match {
			s.Counters.ChecksPassed++
		} else {
			s.Counters.ChecksFailed++
		}
	})

	logger.InfoKV(ctx, "Credential checked", "outcome", protocol.OutcomeOf(match).String())

	return nil
}

// openDoor runs the door sequence. The motor is stopped however the sequence ends.
func (n *Node) openDoor(ctx context.Context) error {
	n.status.setState(lock.StateOpeningDoor)
	logger.Info(ctx, "Opening door")

	defer func() {
		if err := n.drive(hal.Stop, 0); err != nil {
			logger.WarnKV(ctx, "Failed to stop motor", "error", err)
		}
	}()

	plan := sequence.DoorPlan(
		func() error { return n.drive(hal.Forward, hal.MaxSpeed) },
		func() error { return n.drive(hal.Stop, 0) },
		func() error { return n.drive(hal.Reverse, hal.MaxSpeed) },
	)

	if err := n.runner.Run(ctx, "door", plan); err != nil {
		return err
	}

	n.status.update(func(s *lock.Status) {
		s.Counters.DoorsOpened++
	})

	return nil
}

// raiseAlarm sounds the buzzer for the alarm duration. The buzzer is silenced however the sequence ends.
func (n *Node) raiseAlarm(ctx context.Context) error {
	n.status.setState(lock.StateAlarming)
	n.status.update(func(s *lock.Status) {
		s.Counters.AlarmsRaised++
	})

	logger.Warn(ctx, "Incorrect credential entered too many times, raising alarm")

	defer func() {
		if err := n.alarm.Deassert(); err != nil {
			logger.WarnKV(ctx, "Failed to silence alarm", "error", err)
		}

		n.status.update(func(s *lock.Status) {
			s.AlarmActive = false
		})
	}()

	assert := func() error {
		if err := n.alarm.Assert(); err != nil {
			return err
		}

		n.status.update(func(s *lock.Status) {
			s.AlarmActive = true
		})

		return nil
	}

	return n.runner.Run(ctx, "alarm", sequence.AlarmPlan(assert))
}

// drive moves the motor and records the direction.
func (n *Node) drive(dir hal.Direction, speed uint8) error {
	if err := n.motor.Drive(dir, speed); err != nil {
		return fmt.Errorf("drive %s: %w", dir, err)
	}

	n.status.update(func(s *lock.Status) {
		s.Motor = dir.String()
	})

	return nil
}
