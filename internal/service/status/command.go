package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/domain/lock"
	"github.com/oshokin/door-lock/internal/logger"
	"github.com/oshokin/door-lock/internal/service/common"
)

// Options controls the lock-status polling behavior and configuration.
type Options struct {
	// ConfigPath specifies the path to the control node settings YAML file.
	ConfigPath string
	// Address provides an optional status API address override.
	Address string
	// Watch keeps polling instead of printing once.
	Watch bool
	// PollInterval defines the interval between polls in watch mode.
	PollInterval time.Duration
	// Timeout specifies the per-RPC timeout duration; zero uses the settings.
	Timeout time.Duration
	// Out receives the status lines.
	Out io.Writer
}

// DefaultPollInterval defines the polling interval in watch mode.
const DefaultPollInterval = 2 * time.Second

// errNoStatusAddress indicates missing status API configuration.
var errNoStatusAddress = errors.New("no status address configured")

// Run prints the control node status once, or on every poll in watch mode.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "lock-status")

	address, timeout, err := resolve(opts)
	if err != nil {
		return err
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	client, err := common.Dial(ctx, address, common.WithCallTimeout(timeout))
	if err != nil {
		return fmt.Errorf("dial control node: %w", err)
	}

	// Ensure connection cleanup on function exit.
	defer func() {
		_ = client.Close()
	}()

	if !opts.Watch {
		return printStatus(ctx, client, opts.Out)
	}

	logger.InfoKV(ctx, "Watching control node", "address", address, "interval", opts.PollInterval.String())

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		if err = printStatus(ctx, client, opts.Out); err != nil {
			logger.ErrorKV(ctx, "Get status failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil
		case <-ticker.C:
		}
	}
}

// resolve picks the address and timeout from the options, falling back to the settings file.
func resolve(opts *Options) (string, time.Duration, error) {
	address, timeout := opts.Address, opts.Timeout

	if address == "" || timeout <= 0 {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return "", 0, fmt.Errorf("load configuration: %w", err)
		}

		if address == "" {
			address = cfg.StatusAddress
		}

		if timeout <= 0 {
			timeout = cfg.Timeout
		}
	}

	if address == "" {
		return "", 0, errNoStatusAddress
	}

	return dialAddress(address), timeout, nil
}

// dialAddress turns a listen address such as ":50051" into one a client can dial.
func dialAddress(address string) string {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host != "" {
		return address
	}

	return net.JoinHostPort("localhost", port)
}

func printStatus(ctx context.Context, client *common.Client, out io.Writer) error {
	status, err := client.GetStatus(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, Format(status))

	return err
}

// Format renders status as one line.
func Format(s *lock.Status) string {
	var b strings.Builder

	fmt.Fprintf(&b, "state=%s motor=%s", s.State, s.Motor)

	if s.AlarmActive {
		b.WriteString(" alarm=" + color.New(color.FgRed, color.Bold).Sprint("ON"))
	} else {
		b.WriteString(" alarm=off")
	}

	if s.CredentialSet {
		b.WriteString(" credential=set")
	} else {
		b.WriteString(" credential=" + color.YellowString("unset"))
	}

	if c := s.Counters; c != nil {
		fmt.Fprintf(&b, " checks=%d/%d doors=%d alarms=%d changes=%d ignored=%d",
			c.ChecksPassed, c.ChecksPassed+c.ChecksFailed, c.DoorsOpened, c.AlarmsRaised,
			c.CredentialChanges, c.IgnoredBytes)
	}

	if !s.UpdatedAt.IsZero() {
		b.WriteString(" updated=" + s.UpdatedAt.Local().Format(time.RFC3339))
	}

	return b.String()
}
