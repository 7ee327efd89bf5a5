package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.bug.st/serial"

	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/logger"
)

// Link is an open Command Channel transport.
type Link = io.ReadWriteCloser

// DefaultDialRetry is the pause between tcp-dial attempts while the peer is not up yet.
const DefaultDialRetry = time.Second

// errUnknownLinkKind is returned for an unsupported link kind.
var errUnknownLinkKind = errors.New("unknown link kind")

// Open opens the link described by cfg and blocks until it is usable.
// A tcp-listen link waits for exactly one peer; a tcp-dial link retries until the peer accepts.
// Both honour ctx while waiting.
func Open(ctx context.Context, cfg config.LinkConfig) (Link, error) {
	var (
		link Link
		err  error
	)

	switch cfg.Kind {
	case config.LinkSerial:
		link, err = openSerial(cfg.Device, cfg.BaudRate)
	case config.LinkTCPListen:
		link, err = acceptOne(ctx, cfg.Address)
	case config.LinkTCPDial:
		link, err = dialUntilUp(ctx, cfg.Address, DefaultDialRetry)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownLinkKind, cfg.Kind)
	}

	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Link is up", "kind", cfg.Kind, "device", cfg.Device, "address", cfg.Address)

	if cfg.Debug {
		link = Debug(ctx, link)
	}

	return link, nil
}

// openSerial opens device as an 8N1 UART at the configured baud rate.
func openSerial(device string, baudRate int) (Link, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	return port, nil
}

// acceptOne listens on address, accepts a single peer and closes the listener.
func acceptOne(ctx context.Context, address string) (Link, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	logger.InfoKV(ctx, "Waiting for peer", "listen_address", lis.Addr().String())

	return accept(ctx, lis)
}

// accept waits for one connection on lis and always closes lis.
func accept(ctx context.Context, lis net.Listener) (Link, error) {
	type result struct {
		conn net.Conn
		err  error
	}

	accepted := make(chan result, 1)

	go func() {
		conn, err := lis.Accept()
		accepted <- result{conn: conn, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = lis.Close()

		// Accept returns once the listener is closed.
		if r := <-accepted; r.conn != nil {
			_ = r.conn.Close()
		}

		return nil, ctx.Err()
	case r := <-accepted:
		_ = lis.Close()

		if r.err != nil {
			return nil, fmt.Errorf("accept peer: %w", r.err)
		}

		return r.conn, nil
	}
}

// dialUntilUp dials address every retry until it succeeds or ctx is done.
func dialUntilUp(ctx context.Context, address string, retry time.Duration) (Link, error) {
	var dialer net.Dialer

	ticker := time.NewTicker(retry)
	defer ticker.Stop()

	for {
		conn, err := dialer.DialContext(ctx, "tcp", address)
		if err == nil {
			return conn, nil
		}

		logger.DebugKV(ctx, "Peer is not up yet", "address", address, "error", err)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial %s: %w", address, ctx.Err())
		case <-ticker.C:
		}
	}
}
