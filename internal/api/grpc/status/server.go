package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/door-lock/internal/domain/lock"
)

// Provider abstracts the node the transport layer reports on.
type Provider interface {
	Status(ctx context.Context) (*lock.Status, error)
}

// Server implements the StatusService gRPC API.
type Server struct {
	// provider supplies status snapshots.
	provider Provider
}

// NewServer wires the provided node into a gRPC handler.
func NewServer(provider Provider) *Server {
	return &Server{
		provider: provider,
	}
}

// GetStatus returns the current node status.
func (s *Server) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, err := s.provider.Status(ctx)
	if err != nil {
		return nil, grpcstatus.Error(codes.Unavailable, "status is not available")
	}

	result, err := ToStruct(snapshot)
	if err != nil {
		return nil, grpcstatus.Error(codes.Internal, "unable to encode status")
	}

	return result, nil
}

// Struct field names.
const (
	fieldState         = "state"
	fieldMotor         = "motor"
	fieldAlarmActive   = "alarm_active"
	fieldCredentialSet = "credential_set"
	fieldUpdatedAt     = "updated_at"
	fieldCounters      = "counters"

	fieldChecksPassed      = "checks_passed"
	fieldChecksFailed      = "checks_failed"
	fieldSetupAttempts     = "setup_attempts"
	fieldCredentialChanges = "credential_changes"
	fieldDoorsOpened       = "doors_opened"
	fieldAlarmsRaised      = "alarms_raised"
	fieldIgnoredBytes      = "ignored_bytes"
)

// errMalformedStatus is returned when a Struct does not describe a status.
var errMalformedStatus = errors.New("malformed status")

// ToStruct converts a domain status to its wire form.
func ToStruct(s *lock.Status) (*structpb.Struct, error) {
	if s == nil {
		return &structpb.Struct{}, nil
	}

	fields := map[string]any{
		fieldState:         string(s.State),
		fieldMotor:         s.Motor,
		fieldAlarmActive:   s.AlarmActive,
		fieldCredentialSet: s.CredentialSet,
	}

	if !s.UpdatedAt.IsZero() {
		fields[fieldUpdatedAt] = s.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	if c := s.Counters; c != nil {
		fields[fieldCounters] = map[string]any{
			fieldChecksPassed:      c.ChecksPassed,
			fieldChecksFailed:      c.ChecksFailed,
			fieldSetupAttempts:     c.SetupAttempts,
			fieldCredentialChanges: c.CredentialChanges,
			fieldDoorsOpened:       c.DoorsOpened,
			fieldAlarmsRaised:      c.AlarmsRaised,
			fieldIgnoredBytes:      c.IgnoredBytes,
		}
	}

	result, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}

	return result, nil
}

// FromStruct converts the wire form back to a domain status.
func FromStruct(s *structpb.Struct) (*lock.Status, error) {
	fields := s.GetFields()

	result := &lock.Status{
		State:         lock.State(fields[fieldState].GetStringValue()),
		Motor:         fields[fieldMotor].GetStringValue(),
		AlarmActive:   fields[fieldAlarmActive].GetBoolValue(),
		CredentialSet: fields[fieldCredentialSet].GetBoolValue(),
	}

	if raw := fields[fieldUpdatedAt].GetStringValue(); raw != "" {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: updated_at: %w", errMalformedStatus, err)
		}

		result.UpdatedAt = ts
	}

	if counters := fields[fieldCounters].GetStructValue(); counters != nil {
		c := counters.GetFields()
		result.Counters = &lock.Counters{
			ChecksPassed:      uint64(c[fieldChecksPassed].GetNumberValue()),
			ChecksFailed:      uint64(c[fieldChecksFailed].GetNumberValue()),
			SetupAttempts:     uint64(c[fieldSetupAttempts].GetNumberValue()),
			CredentialChanges: uint64(c[fieldCredentialChanges].GetNumberValue()),
			DoorsOpened:       uint64(c[fieldDoorsOpened].GetNumberValue()),
			AlarmsRaised:      uint64(c[fieldAlarmsRaised].GetNumberValue()),
			IgnoredBytes:      uint64(c[fieldIgnoredBytes].GetNumberValue()),
		}
	}

	return result, nil
}
