//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	api "github.com/oshokin/door-lock/internal/api/grpc/status"
	"github.com/oshokin/door-lock/internal/config"
	"github.com/oshokin/door-lock/internal/domain/lock"
	"github.com/oshokin/door-lock/internal/hal/console"
	"github.com/oshokin/door-lock/internal/repository/eeprom"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// fixedProvider reports a constant status.
type fixedProvider struct{}

func (fixedProvider) Status(context.Context) (*lock.Status, error) {
	return &lock.Status{
		State:    lock.StateAwaitingCommand,
		Motor:    "stop",
		Counters: &lock.Counters{ChecksPassed: 1},
	}, nil
}

// TestClient_GetStatus talks to a real status server on a loopback port.
func TestClient_GetStatus(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	api.RegisterStatusServiceServer(srv, api.NewServer(fixedProvider{}))

	go func() {
		_ = srv.Serve(lis)
	}()

	t.Cleanup(srv.Stop)

	c, err := Dial(t.Context(), lis.Addr().String(), WithCallTimeout(time.Second))
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	status, err := c.GetStatus(t.Context())
	require.NoError(t, err)
	require.Equal(t, lock.StateAwaitingCommand, status.State)
	require.Equal(t, uint64(1), status.Counters.ChecksPassed)
}

// TestOpenStorage covers the kinds that need no hardware.
func TestOpenStorage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "eeprom.bin")

	device, closer, err := OpenStorage(t.Context(), config.StorageConfig{Kind: config.StorageFile, Path: path})
	require.NoError(t, err)
	require.IsType(t, new(eeprom.FileImage), device)
	require.NoError(t, closer.Close())

	device, closer, err = OpenStorage(t.Context(), config.StorageConfig{Kind: config.StorageMemory})
	require.NoError(t, err)
	require.IsType(t, new(eeprom.Memory), device)
	require.NoError(t, closer.Close())

	_, _, err = OpenStorage(t.Context(), config.StorageConfig{Kind: "tape"})
	require.ErrorIs(t, err, errUnknownStorageKind)
}

// TestOpenActuators_Console falls back to logging outputs without pins.
func TestOpenActuators_Console(t *testing.T) {
	t.Parallel()

	motor, alarm, err := OpenActuators(t.Context(), config.GPIOConfig{})
	require.NoError(t, err)
	require.IsType(t, new(console.Motor), motor)
	require.IsType(t, new(console.Buzzer), alarm)
}
