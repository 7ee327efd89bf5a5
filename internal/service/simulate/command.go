package simulate

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/hal/console"
	"github.com/oshokin/door-lock/internal/logger"
	repository "github.com/oshokin/door-lock/internal/repository/credential"
	"github.com/oshokin/door-lock/internal/sequence"
	"github.com/oshokin/door-lock/internal/service/common"
	"github.com/oshokin/door-lock/internal/service/control"
	"github.com/oshokin/door-lock/internal/service/hmi"
	"github.com/oshokin/door-lock/internal/timer"
	"github.com/oshokin/door-lock/internal/transport"
	"github.com/oshokin/door-lock/internal/version"
)

// Options controls the simulator.
type Options struct {
	// EEPROMPath keeps the credential in an image file; empty keeps it in memory.
	EEPROMPath string
	// Screen receives the rendered display.
	Screen io.Writer
	// Keys is the keypad input stream.
	Keys io.Reader
	// PollInterval is the spin-wait poll period of both nodes.
	PollInterval time.Duration
	// Debug dumps every byte crossing the link.
	Debug bool
}

// Nodes are the two nodes of a simulation.
type Nodes struct {
	// Control is the control node.
	Control *control.Node
	// HMI is the interface node.
	HMI *hmi.Node
	// Display is the interface node display.
	Display *console.Display
	// keypad feeds the interface node.
	keypad *console.Keypad
	// link holds both pipe ends.
	link [2]net.Conn
}

// Close closes both pipe ends and the keypad.
func (n *Nodes) Close() {
	for _, c := range n.link {
		_ = c.Close()
	}

	_ = n.keypad.Close()
}

// Build wires both nodes over an in-memory link.
func Build(ctx context.Context, opts *Options) (*Nodes, error) {
	storageCfg := config.StorageConfig{Kind: config.StorageMemory}
	if opts.EEPROMPath != "" {
		storageCfg = config.StorageConfig{Kind: config.StorageFile, Path: opts.EEPROMPath}
	}

	device, _, err := common.OpenStorage(ctx, storageCfg)
	if err != nil {
		return nil, err
	}

	motor, alarm, err := common.OpenActuators(ctx, config.GPIOConfig{})
	if err != nil {
		return nil, err
	}

	controlEnd, hmiEnd := net.Pipe()

	var controlLink, hmiLink io.ReadWriter = controlEnd, hmiEnd
	if opts.Debug {
		controlLink = transport.Debug(logger.WithName(ctx, "control"), controlEnd)
	}

	display := console.NewDisplay(opts.Screen)
	keypad := console.NewKeypad(opts.Keys)

	return &Nodes{
		Control: control.NewNode(control.Deps{
			Link:         controlLink,
			Store:        repository.NewStore(device),
			Motor:        motor,
			Alarm:        alarm,
			Timer:        timer.NewSoft(sequence.ControlClockHz),
			PollInterval: opts.PollInterval,
		}),
		HMI: hmi.NewNode(hmi.Deps{
			Link:         hmiLink,
			Display:      display,
			Keypad:       keypad,
			Timer:        timer.NewSoft(sequence.HMIClockHz),
			PollInterval: opts.PollInterval,
		}),
		Display: display,
		keypad:  keypad,
		link:    [2]net.Conn{controlEnd, hmiEnd},
	}, nil
}

// Run builds both nodes and runs them until ctx is canceled or either node stops.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "lock-sim")

	logger.Info(ctx, version.Banner("lock-sim"))

	nodes, err := Build(ctx, opts)
	if err != nil {
		return err
	}

	err = nodes.Run(ctx)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.Info(ctx, "Simulation stopped")

		return nil
	}

	return err
}

// Run runs both nodes until ctx is canceled or either node stops.
// The link is closed on return.
func (n *Nodes) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	// Either node stopping closes the link so the other one unblocks.
	stopLink := context.AfterFunc(groupCtx, n.Close)
	defer stopLink()
	defer n.Close()

	group.Go(func() error {
		return n.Control.Run(groupCtx)
	})

	group.Go(func() error {
		return n.HMI.Run(groupCtx)
	})

	return group.Wait()
}
