//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/door-lock/internal/api/grpc/status"
	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/domain/lock"
	"github.com/oshokin/door-lock/internal/version"
)

// Client calls the control node StatusService.
type Client struct {
	// conn is the underlying gRPC connection to the control node.
	conn *grpc.ClientConn

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the control node.
// Note: this uses insecure transport credentials; the status API is meant for
// the device's local network.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(version.UserAgent("lock-status")),
	)
	if err != nil {
		return nil, fmt.Errorf("dial control node: %w", err)
	}

	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetStatus retrieves the current control node status.
func (c *Client) GetStatus(ctx context.Context) (*lock.Status, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	reply := new(structpb.Struct)
	if err := c.conn.Invoke(callCtx, api.GetStatusMethod, new(emptypb.Empty), reply); err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	status, err := api.FromStruct(reply)
	if err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}

	return status, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
