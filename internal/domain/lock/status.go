package lock

import "time"

// State is the control node activity.
type State string

const (
	// StateSetup is the mandatory credential setup exchange.
	StateSetup State = "setup"
	// StateAwaitingCommand is the idle dispatch loop.
	StateAwaitingCommand State = "awaiting_command"
	// StateChecking is a credential comparison in progress.
	StateChecking State = "checking"
	// StateOpeningDoor is the door actuation sequence.
	StateOpeningDoor State = "opening_door"
	// StateAlarming is the alarm sequence.
	StateAlarming State = "alarming"
)

// Counters are running totals since boot.
type Counters struct {
	// ChecksPassed counts CHECK_PASS requests answered with success.
	ChecksPassed uint64
	// ChecksFailed counts CHECK_PASS requests answered with failure.
	ChecksFailed uint64
	// SetupAttempts counts credential pairs received during setup.
	SetupAttempts uint64
	// CredentialChanges counts successful setups, the boot one included.
	CredentialChanges uint64
	// DoorsOpened counts completed door sequences.
	DoorsOpened uint64
	// AlarmsRaised counts alarm sequences.
	AlarmsRaised uint64
	// IgnoredBytes counts command bytes outside the known set.
	IgnoredBytes uint64
}

// Clone returns a copy of the counters.
func (c *Counters) Clone() *Counters {
	if c == nil {
		return nil
	}

	cloned := *c

	return &cloned
}

// Status is the control node state at a specific point in time.
type Status struct {
	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time
	// Counters are the running totals.
	Counters *Counters
	// State is the current activity.
	State State
	// Motor is the direction the motor is driven in.
	Motor string
	// AlarmActive reports whether the alarm output is asserted.
	AlarmActive bool
	// CredentialSet reports whether a credential has been persisted.
	CredentialSet bool
}

// Clone returns a copy of the status to avoid leaking internal references.
func (s *Status) Clone() *Status {
	return &Status{
		UpdatedAt:     s.UpdatedAt,
		Counters:      s.Counters.Clone(),
		State:         s.State,
		Motor:         s.Motor,
		AlarmActive:   s.AlarmActive,
		CredentialSet: s.CredentialSet,
	}
}
