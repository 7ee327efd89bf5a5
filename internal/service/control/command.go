package control

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	api "github.com/oshokin/door-lock/internal/api/grpc/status"
	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/logger"
	repository "github.com/oshokin/door-lock/internal/repository/credential"
	"github.com/oshokin/door-lock/internal/sequence"
	"github.com/oshokin/door-lock/internal/service/common"
	"github.com/oshokin/door-lock/internal/timer"
	"github.com/oshokin/door-lock/internal/transport"
	"github.com/oshokin/door-lock/internal/version"
)

// Options controls the control-node process.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// StatusAddress overrides the status API listen address from the settings.
	StatusAddress string
}

// Run loads settings, wires the hardware and runs the node until ctx is canceled
// or the node stops on a link or storage failure.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "control-node")

	logger.Info(ctx, version.Banner("control-node"))

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	statusAddress := settings.StatusAddress
	if opts.StatusAddress != "" {
		statusAddress = opts.StatusAddress
	}

	device, closer, err := common.OpenStorage(ctx, settings.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	defer closer.Close() //nolint:errcheck // Nothing to do on release failure.

	motor, alarm, err := common.OpenActuators(ctx, settings.GPIO)
	if err != nil {
		return fmt.Errorf("open actuators: %w", err)
	}

	link, err := transport.Open(ctx, settings.Link)
	if err != nil {
		return fmt.Errorf("open link: %w", err)
	}

	defer link.Close() //nolint:errcheck // Closed twice on shutdown.

	node := NewNode(Deps{
		Link:         link,
		Store:        repository.NewStore(device, repository.WithSettleDelay(settings.Storage.SettleDelay)),
		Motor:        motor,
		Alarm:        alarm,
		Timer:        timer.NewSoft(sequence.ControlClockHz),
		PollInterval: settings.Timer.PollInterval,
	})

	group, groupCtx := errgroup.WithContext(ctx)

	// Closing the link unblocks a pending receive on shutdown.
	stopLink := context.AfterFunc(groupCtx, func() { _ = link.Close() })
	defer stopLink()

	group.Go(func() error {
		return node.Run(groupCtx)
	})

	if statusAddress != "" {
		group.Go(func() error {
			return serveStatus(groupCtx, statusAddress, node)
		})
	}

	err = group.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		logger.Info(ctx, "Control node stopped")

		return nil
	}

	return err
}

// serveStatus runs the status API until ctx is canceled.
func serveStatus(ctx context.Context, address string, node *Node) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	grpcServer := grpc.NewServer()
	api.RegisterStatusServiceServer(grpcServer, api.NewServer(node))

	logger.InfoKV(ctx, "Status API listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down status API")
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done

	return ctx.Err()
}
