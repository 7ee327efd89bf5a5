package status

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/door-lock/internal/domain/lock"
)

// fakeProvider returns a fixed status or error.
type fakeProvider struct {
	// status is returned by Status.
	status *lock.Status
	// err is returned by Status when set.
	err error
}

func (f *fakeProvider) Status(context.Context) (*lock.Status, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.status.Clone(), nil
}

func sampleStatus() *lock.Status {
	return &lock.Status{
		UpdatedAt: time.Date(2026, 3, 11, 9, 30, 0, 0, time.UTC),
		Counters: &lock.Counters{
			ChecksPassed:      4,
			ChecksFailed:      3,
			SetupAttempts:     2,
			CredentialChanges: 1,
			DoorsOpened:       4,
			AlarmsRaised:      1,
		},
		State:         lock.StateOpeningDoor,
		Motor:         "forward",
		CredentialSet: true,
	}
}

// TestStructRoundtrip ensures every field survives the wire form.
func TestStructRoundtrip(t *testing.T) {
	t.Parallel()

	in := sampleStatus()

	encoded, err := ToStruct(in)
	require.NoError(t, err)
	require.Equal(t, "opening_door", encoded.GetFields()["state"].GetStringValue())

	out, err := FromStruct(encoded)
	require.NoError(t, err)
	require.Equal(t, in, out)

	empty, err := ToStruct(nil)
	require.NoError(t, err)
	require.Empty(t, empty.GetFields())
}

func TestFromStruct_BadTimestamp(t *testing.T) {
	t.Parallel()

	s, err := structpb.NewStruct(map[string]any{"updated_at": "yesterday"})
	require.NoError(t, err)

	_, err = FromStruct(s)
	require.ErrorIs(t, err, errMalformedStatus)
}

func TestServer_ProviderError(t *testing.T) {
	t.Parallel()

	s := NewServer(&fakeProvider{err: errors.New("boom")})

	_, err := s.GetStatus(t.Context(), new(emptypb.Empty))
	require.Equal(t, codes.Unavailable, grpcstatus.Code(err))
}

// TestServiceDesc_OverBufconn calls GetStatus through a real gRPC server.
func TestServiceDesc_OverBufconn(t *testing.T) {
	t.Parallel()

	lis := bufconn.Listen(1 << 16)

	srv := grpc.NewServer()
	RegisterStatusServiceServer(srv, NewServer(&fakeProvider{status: sampleStatus()}))

	go func() {
		_ = srv.Serve(lis)
	}()

	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close() })

	reply := new(structpb.Struct)
	require.NoError(t, conn.Invoke(t.Context(), GetStatusMethod, new(emptypb.Empty), reply))

	got, err := FromStruct(reply)
	require.NoError(t, err)
	require.Equal(t, sampleStatus(), got)
}
