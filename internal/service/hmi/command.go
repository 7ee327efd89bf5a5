package hmi

import (
	"context"
	"fmt"
	"io"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/hal/console"
	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/sequence"
	"github.com/oshokin/door-lock/internal/timer"
	"github.com/oshokin/door-lock/internal/transport"
	"github.com/oshokin/door-lock/internal/version"
)

// Options controls the hmi-node process.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// Screen receives the rendered display.
	Screen io.Writer
	// Keys is the keypad input stream.
	Keys io.Reader
}

// Run loads settings, opens the link and runs the node on a terminal display and keypad
// until ctx is canceled or the node stops.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "hmi-node")

	logger.Info(ctx, version.Banner("hmi-node"))

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	link, err := transport.Open(ctx, settings.Link)
	if err != nil {
		return fmt.Errorf("open link: %w", err)
	}

	// Closing the link unblocks a pending receive on shutdown.
	stopLink := context.AfterFunc(ctx, func() { _ = link.Close() })
	defer stopLink()
	defer link.Close() //nolint:errcheck // Closed twice on shutdown.

	keypad := console.NewKeypad(opts.Keys)
	defer keypad.Close() //nolint:errcheck // Never fails.

	node := NewNode(Deps{
		Link:         link,
		Display:      console.NewDisplay(opts.Screen),
		Keypad:       keypad,
		Timer:        timer.NewSoft(sequence.HMIClockHz),
		PollInterval: settings.Timer.PollInterval,
	})

	if err = node.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info(ctx, "Interface node stopped")

	return nil
}
