package hmi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	domain "github.com/oshokin/door-lock/internal/domain/credential"
	"github.com/oshokin/door-lock/internal/hal"
	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/protocol"
	"github.com/oshokin/door-lock/internal/sequence"
	"github.com/oshokin/door-lock/internal/timer"
)

// MaxAttempts is the number of credential checks before the alarm.
const MaxAttempts = 3

// Deps are the collaborators of an interface node.
type Deps struct {
	// Link carries the Command Channel.
	Link io.ReadWriter
	// Display is the 2x16 character display.
	Display hal.Display
	// Keypad yields key presses.
	Keypad hal.Keypad
	// Timer paces the door and alarm screens.
	Timer timer.Timer
	// PollInterval is the spin-wait poll period; zero selects the default.
	PollInterval time.Duration
}

// Node is the interface node state machine.
type Node struct {
	// ch is the Command Channel to the control node.
	ch *protocol.Channel
	// display shows prompts and outcomes.
	display hal.Display
	// keypad reads user input.
	keypad hal.Keypad
	// runner executes timed screens on the node timer.
	runner *sequence.Runner
	// state is the current flow position.
	state atomic.Uint32
}

// NewNode wires an interface node.
func NewNode(deps Deps) *Node {
	return &Node{
		ch:      protocol.NewChannel(deps.Link),
		display: deps.Display,
		keypad:  deps.Keypad,
		runner:  sequence.NewRunner(deps.Timer, sequence.HMIClockHz, deps.PollInterval),
	}
}

// State returns the current flow position.
func (n *Node) State() State {
	return State(n.state.Load())
}

func (n *Node) enter(ctx context.Context, s State) {
	n.state.Store(uint32(s))
	logger.DebugKV(ctx, "State changed", "state", s.String())
}

// Run sets the credential and then serves the menu until the link or keypad
// fails or ctx is canceled.
func (n *Node) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "hmi")

	logger.Info(ctx, "Interface node started")

	if err := n.setPassword(ctx); err != nil {
		return n.stopped(ctx, err)
	}

	for {
		if err := n.serveMenu(ctx); err != nil {
			return n.stopped(ctx, err)
		}
	}
}

// stopped prefers the cancellation cause over the error it provoked.
func (n *Node) stopped(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	logger.ErrorKV(ctx, "Interface node stopped", "error", err)

	return err
}

// serveMenu shows the menu, runs the chosen action and returns to the menu.
func (n *Node) serveMenu(ctx context.Context) error {
	n.enter(ctx, StateMainMenu)

	choice, err := n.menu(ctx)
	if err != nil {
		return err
	}

	ok, err := n.verify(ctx)
	if err != nil {
		return err
	}

	if !ok {
		return n.raiseAlarm(ctx)
	}

	if choice == KeyOpenDoor {
		return n.openDoor(ctx)
	}

	return n.changePassword(ctx)
}

// menu shows both options and returns the first accepted key.
func (n *Node) menu(ctx context.Context) (byte, error) {
	n.clear(ctx)
	n.print(ctx, 0, 0, menuOpenDoor)
	n.print(ctx, 1, 0, menuChangePass)

	for {
		key, err := n.keypad.ReadKey(ctx)
		if err != nil {
			return 0, err
		}

		if key == KeyOpenDoor || key == KeyChangePass {
			return key, nil
		}
	}
}

// setPassword repeats the dual-entry flow until the control node accepts it.
func (n *Node) setPassword(ctx context.Context) error {
	n.enter(ctx, StateSettingPassword)

	for {
		n.clear(ctx)
		n.print(ctx, 0, 0, promptEnter)
		n.moveCursor(ctx, 1, 0)

		first, err := n.readEntry(ctx)
		if err != nil {
			return err
		}

		n.clear(ctx)
		n.print(ctx, 0, 0, promptReenter)
		n.print(ctx, 1, 0, promptSamePass)
		n.moveCursor(ctx, 1, samePassEntryCol)

		second, err := n.readEntry(ctx)
		if err != nil {
			return err
		}

		if err = n.ch.SendCredential(first); err != nil {
			return err
		}

		if err = n.ch.SendCredential(second); err != nil {
			return err
		}

		ok, err := n.receiveOutcome(ctx)
		if err != nil {
			return err
		}

		if ok {
			logger.Info(ctx, "Credential set")

			return nil
		}

		logger.Info(ctx, "Credential entries do not match, asking again")
	}
}

// verify runs up to MaxAttempts checks and stops at the first success.
func (n *Node) verify(ctx context.Context) (bool, error) {
	n.enter(ctx, StateVerifying)

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := n.ch.SendCommand(protocol.CheckPass); err != nil {
			return false, err
		}

		n.clear(ctx)
		n.print(ctx, 0, 0, promptEnter)
		n.moveCursor(ctx, 1, 0)

		entry, err := n.readEntry(ctx)
		if err != nil {
			return false, err
		}

		if err = n.ch.SendCredential(entry); err != nil {
			return false, err
		}

		ok, err := n.receiveOutcome(ctx)
		if err != nil {
			return false, err
		}

		logger.InfoKV(ctx, "Credential checked", "attempt", attempt, "outcome", protocol.OutcomeOf(ok).String())

		if ok {
			return true, nil
		}
	}

	return false, nil
}

// openDoor starts the door on the control node and shows its progress.
func (n *Node) openDoor(ctx context.Context) error {
	n.enter(ctx, StateOpening)

	if err := n.ch.SendCommand(protocol.OpenDoor); err != nil {
		return err
	}

	plan := sequence.DoorDisplayPlan(
		func() error {
			if err := n.display.Clear(); err != nil {
				return err
			}

			if err := n.display.DisplayText(doorIs); err != nil {
				return err
			}

			if err := n.display.MoveCursor(1, 0); err != nil {
				return err
			}

			return n.display.DisplayText(doorUnlocking)
		},
		func() error {
			if err := n.display.MoveCursor(1, 0); err != nil {
				return err
			}

			return n.display.DisplayText(doorLocking)
		},
	)

	return n.runner.Run(ctx, "door", plan)
}

// raiseAlarm shows the alarm screen and sounds the alarm on the control node.
func (n *Node) raiseAlarm(ctx context.Context) error {
	n.enter(ctx, StateAlarming)

	logger.Warn(ctx, "Too many incorrect credentials, raising alarm")

	n.clear(ctx)
	n.print(ctx, 0, 0, incorrectPass)

	if err := n.ch.SendCommand(protocol.IncorrectPass); err != nil {
		return err
	}

	return n.runner.Run(ctx, "alarm", sequence.AlarmDisplayPlan(nil))
}

// changePassword asks the control node to accept a new credential.
func (n *Node) changePassword(ctx context.Context) error {
	n.enter(ctx, StateChangingPassword)

	if err := n.ch.SendCommand(protocol.ChangePass); err != nil {
		return err
	}

	return n.setPassword(ctx)
}

// readEntry echoes a mask for each accepted digit and returns once the accept
// key follows exactly domain.Length digits.
func (n *Node) readEntry(ctx context.Context) (domain.Credential, error) {
	var entry domain.Entry

	for {
		key, err := n.keypad.ReadKey(ctx)
		if err != nil {
			return domain.Credential{}, err
		}

		if key == hal.KeyEnter {
			if c, ok := entry.Credential(); ok {
				return c, nil
			}

			continue
		}

		if entry.Push(key) {
			if err = n.display.DisplayChar(domain.Mask()); err != nil {
				logger.WarnKV(ctx, "Display failed", "error", err)
			}
		}
	}
}

// receiveOutcome waits for the control node reply. An unknown byte counts as failure.
func (n *Node) receiveOutcome(ctx context.Context) (bool, error) {
	outcome, err := n.ch.ReceiveOutcome()

	switch {
	case err == nil:
		return outcome.OK(), nil
	case errors.Is(err, protocol.ErrUnknownOutcome):
		logger.WarnKV(ctx, "Unknown outcome byte, treating as failure", "error", err)

		return false, nil
	default:
		return false, fmt.Errorf("wait for outcome: %w", err)
	}
}

// Display helpers. A display fault is logged and the flow goes on.

func (n *Node) clear(ctx context.Context) {
	if err := n.display.Clear(); err != nil {
		logger.WarnKV(ctx, "Display failed", "error", err)
	}
}

func (n *Node) moveCursor(ctx context.Context, row, col int) {
	if err := n.display.MoveCursor(row, col); err != nil {
		logger.WarnKV(ctx, "Display failed", "error", err)
	}
}

func (n *Node) print(ctx context.Context, row, col int, text string) {
	n.moveCursor(ctx, row, col)

	if err := n.display.DisplayText(text); err != nil {
		logger.WarnKV(ctx, "Display failed", "error", err)
	}
}
