package control

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/door-lock/internal/domain/credential"
	"github.com/oshokin/door-lock/internal/domain/lock"
	"github.com/oshokin/door-lock/internal/hal"
	"github.com/oshokin/door-lock/internal/protocol"
	repository "github.com/oshokin/door-lock/internal/repository/credential"
	"github.com/oshokin/door-lock/internal/repository/eeprom"
	"github.com/oshokin/door-lock/internal/sequence"
	"github.com/oshokin/door-lock/internal/timer"
)

// driveCall is one recorded motor request.
type driveCall struct {
	// at is the virtual time of the request.
	at time.Time
	// dir is the requested direction.
	dir hal.Direction
	// speed is the requested duty.
	speed uint8
}

// recordingMotor records every drive request.
type recordingMotor struct {
	mu    sync.Mutex
	calls []driveCall
	// err is returned from every Drive call when set.
	err error
}

func (m *recordingMotor) Drive(dir hal.Direction, speed uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, driveCall{at: time.Now(), dir: dir, speed: speed})

	return m.err
}

func (m *recordingMotor) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

func (m *recordingMotor) Calls() []driveCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]driveCall(nil), m.calls...)
}

// recordingAlarm records when the buzzer turns on and off.
type recordingAlarm struct {
	mu         sync.Mutex
	assertedAt []time.Time
	releasedAt []time.Time
}

func (a *recordingAlarm) Assert() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.assertedAt = append(a.assertedAt, time.Now())

	return nil
}

func (a *recordingAlarm) Deassert() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.releasedAt = append(a.releasedAt, time.Now())

	return nil
}

// Times returns copies of the recorded on and off times.
func (a *recordingAlarm) Times() (asserted, released []time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]time.Time(nil), a.assertedAt...), append([]time.Time(nil), a.releasedAt...)
}

// failingStorage rejects every access.
type failingStorage struct{}

func (failingStorage) WriteByteAt(uint16, byte) error  { return errors.New("bus stuck") }
func (failingStorage) ReadByteAt(uint16) (byte, error) { return 0xFF, nil }

// countingStorage counts writes on top of a volatile image.
type countingStorage struct {
	*eeprom.Memory

	writes atomic.Int32
}

func (s *countingStorage) WriteByteAt(addr uint16, v byte) error {
	s.writes.Add(1)

	return s.Memory.WriteByteAt(addr, v)
}

func (s *countingStorage) Writes() int {
	return int(s.writes.Load())
}

// stored returns the raw credential block.
func (s *countingStorage) stored(t *testing.T) []byte {
	t.Helper()

	block := make([]byte, 0, domain.Length)

	for i := range domain.Length {
		b, err := s.ReadByteAt(repository.BaseAddress + uint16(i))
		require.NoError(t, err)

		block = append(block, b)
	}

	return block
}

// harness runs a control node against a scripted interface node.
type harness struct {
	// peer is the interface node end of the Command Channel.
	peer *protocol.Channel
	// memory is the credential storage.
	memory *countingStorage
	motor  *recordingMotor
	alarm  *recordingAlarm
	node   *Node
	// done receives the Run result.
	done chan error
	// stop cancels Run and closes the link.
	stop func()
}

func startNode(t *testing.T, storage hal.Storage) *harness {
	t.Helper()

	nodeEnd, peerEnd := net.Pipe()

	h := &harness{
		peer:  protocol.NewChannel(peerEnd),
		motor: new(recordingMotor),
		alarm: new(recordingAlarm),
		done:  make(chan error, 1),
	}

	if storage == nil {
		h.memory = &countingStorage{Memory: eeprom.NewMemory()}
		storage = h.memory
	}

	h.node = NewNode(Deps{
		Link:  nodeEnd,
		Store: repository.NewStore(storage),
		Motor: h.motor,
		Alarm: h.alarm,
		Timer: timer.NewSoft(sequence.ControlClockHz),
	})

	ctx, cancel := context.WithCancel(t.Context())

	go func() {
		h.done <- h.node.Run(ctx)
	}()

	h.stop = func() {
		cancel()
		_ = peerEnd.Close()
		_ = nodeEnd.Close()
	}

	return h
}

// shutdown stops the node and returns the Run result.
func (h *harness) shutdown() error {
	h.stop()

	return <-h.done
}

func (h *harness) sendPair(t *testing.T, first, second string) protocol.Outcome {
	t.Helper()

	require.NoError(t, h.peer.SendCredential(mustParse(t, first)))
	require.NoError(t, h.peer.SendCredential(mustParse(t, second)))

	outcome, err := h.peer.ReceiveOutcome()
	require.NoError(t, err)

	return outcome
}

func (h *harness) check(t *testing.T, pass string) protocol.Outcome {
	t.Helper()

	require.NoError(t, h.peer.SendCommand(protocol.CheckPass))
	require.NoError(t, h.peer.SendCredential(mustParse(t, pass)))

	outcome, err := h.peer.ReceiveOutcome()
	require.NoError(t, err)

	return outcome
}

// settle lets pending storage writes finish.
func (h *harness) settle() {
	time.Sleep(time.Second)
	synctest.Wait()
}

func (h *harness) status(t *testing.T) *lock.Status {
	t.Helper()

	s, err := h.node.Status(t.Context())
	require.NoError(t, err)

	return s
}

func mustParse(t *testing.T, s string) domain.Credential {
	t.Helper()

	c, err := domain.Parse(s)
	require.NoError(t, err)

	return c
}

// TestSetup_MismatchNeverSucceeds checks that differing pairs are refused and nothing is stored.
func TestSetup_MismatchNeverSucceeds(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		pairs := [][2]string{
			{"12345", "12346"},
			{"00000", "99999"},
			{"54321", "12345"},
		}

		for _, p := range pairs {
			require.Equal(t, protocol.Failure, h.sendPair(t, p[0], p[1]))
		}

		h.settle()
		require.Zero(t, h.memory.Writes())
		require.Equal(t, lock.StateSetup, h.status(t).State)
		require.Equal(t, uint64(3), h.status(t).Counters.SetupAttempts)

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestSetup_MatchPersists checks that a matching pair is acknowledged once and stored.
func TestSetup_MatchPersists(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		require.Equal(t, protocol.Failure, h.sendPair(t, "12345", "54321"))
		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))

		h.settle()
		require.Equal(t, []byte("12345"), h.memory.stored(t))
		require.Equal(t, domain.Length, h.memory.Writes())

		status := h.status(t)
		require.True(t, status.CredentialSet)
		require.Equal(t, lock.StateAwaitingCommand, status.State)
		require.Equal(t, uint64(1), status.Counters.CredentialChanges)

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestCheckAndChange covers verification before and after a credential change.
func TestCheckAndChange(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))
		require.Equal(t, protocol.Success, h.check(t, "12345"))
		require.Equal(t, protocol.Failure, h.check(t, "00000"))

		require.NoError(t, h.peer.SendCommand(protocol.ChangePass))
		require.Equal(t, protocol.Failure, h.sendPair(t, "24680", "24681"))
		require.Equal(t, protocol.Success, h.sendPair(t, "24680", "24680"))

		require.Equal(t, protocol.Success, h.check(t, "24680"))
		require.Equal(t, protocol.Failure, h.check(t, "12345"))

		h.settle()
		require.Equal(t, []byte("24680"), h.memory.stored(t))

		counters := h.status(t).Counters
		require.Equal(t, uint64(2), counters.ChecksPassed)
		require.Equal(t, uint64(2), counters.ChecksFailed)
		require.Equal(t, uint64(2), counters.CredentialChanges)

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestCheck_MalformedPayload answers a non-digit payload with failure and stays in sync.
func TestCheck_MalformedPayload(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))

		require.NoError(t, h.peer.SendCommand(protocol.CheckPass))
		require.NoError(t, h.peer.SendTerminatedString([]byte("12a45")))

		outcome, err := h.peer.ReceiveOutcome()
		require.NoError(t, err)
		require.Equal(t, protocol.Failure, outcome)

		require.Equal(t, protocol.Success, h.check(t, "12345"))

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestSetup_OverLongPayload answers an over-long entry with failure and keeps the pairs aligned.
func TestSetup_OverLongPayload(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		require.NoError(t, h.peer.SendTerminatedString([]byte("12345678901234567890")))
		require.NoError(t, h.peer.SendCredential(mustParse(t, "12345")))

		outcome, err := h.peer.ReceiveOutcome()
		require.NoError(t, err)
		require.Equal(t, protocol.Failure, outcome)

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))
		h.settle()
		require.Equal(t, protocol.Success, h.check(t, "12345"))

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestUnknownCommandIsIgnored checks that a stray byte gets no reply and the loop continues.
func TestUnknownCommandIsIgnored(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))

		require.NoError(t, h.peer.SendByte(0x42))
		require.Equal(t, protocol.Success, h.check(t, "12345"))
		require.Equal(t, uint64(1), h.status(t).Counters.IgnoredBytes)

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestOpenDoor_PhaseOrder checks phase order and durations and that the motor ends stopped.
func TestOpenDoor_PhaseOrder(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))
		h.settle()

		require.NoError(t, h.peer.SendCommand(protocol.OpenDoor))

		time.Sleep(time.Second)
		require.Equal(t, lock.StateOpeningDoor, h.status(t).State)
		require.Equal(t, "forward", h.status(t).Motor)

		time.Sleep(time.Minute)
		synctest.Wait()

		calls := h.motor.Calls()
		require.Len(t, calls, 4)

		want := []driveCall{
			{dir: hal.Forward, speed: hal.MaxSpeed},
			{dir: hal.Stop},
			{dir: hal.Reverse, speed: hal.MaxSpeed},
			{dir: hal.Stop},
		}

		for i, c := range calls {
			require.Equal(t, want[i].dir, c.dir, "call %d", i)
			require.Equal(t, want[i].speed, c.speed, "call %d", i)
		}

		slack := float64(2 * sequence.DefaultPollInterval)
		require.InDelta(t, 15*time.Second, calls[1].at.Sub(calls[0].at), slack)
		require.InDelta(t, 3*time.Second, calls[2].at.Sub(calls[1].at), slack)
		require.InDelta(t, 15*time.Second, calls[3].at.Sub(calls[2].at), slack)

		status := h.status(t)
		require.Equal(t, "stop", status.Motor)
		require.Equal(t, uint64(1), status.Counters.DoorsOpened)
		require.Equal(t, lock.StateAwaitingCommand, status.State)

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestOpenDoor_MotorFailureKeepsTiming checks that actuator errors do not shorten the sequence.
func TestOpenDoor_MotorFailureKeepsTiming(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)
		h.motor.fail(errors.New("driver fault"))

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))
		h.settle()

		start := time.Now()

		require.NoError(t, h.peer.SendCommand(protocol.OpenDoor))
		require.Equal(t, protocol.Success, h.check(t, "12345"))

		// The check is only served after the whole door sequence.
		require.InDelta(t, 33*time.Second, time.Since(start), float64(150*time.Millisecond))
		require.Len(t, h.motor.Calls(), 4)

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestAlarm_Duration checks the buzzer sounds for one minute and is silenced.
func TestAlarm_Duration(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, nil)

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))
		h.settle()

		require.NoError(t, h.peer.SendCommand(protocol.IncorrectPass))

		time.Sleep(time.Second)
		require.True(t, h.status(t).AlarmActive)
		require.Equal(t, lock.StateAlarming, h.status(t).State)

		time.Sleep(2 * time.Minute)
		synctest.Wait()

		asserted, released := h.alarm.Times()
		require.Len(t, asserted, 1)
		require.Len(t, released, 1)
		require.InDelta(t, time.Minute, released[0].Sub(asserted[0]), float64(2*sequence.DefaultPollInterval))

		status := h.status(t)
		require.False(t, status.AlarmActive)
		require.Equal(t, uint64(1), status.Counters.AlarmsRaised)

		require.ErrorIs(t, h.shutdown(), context.Canceled)
	})
}

// TestRun_StorageFailureStops checks that a failed credential write ends Run.
func TestRun_StorageFailureStops(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		h := startNode(t, failingStorage{})

		require.Equal(t, protocol.Success, h.sendPair(t, "12345", "12345"))

		err := <-h.done
		require.ErrorContains(t, err, "persist credential")

		h.stop()
	})
}

// TestRun_LinkClosed checks that losing the peer ends Run with an error.
func TestRun_LinkClosed(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		nodeEnd, peerEnd := net.Pipe()

		node := NewNode(Deps{
			Link:  nodeEnd,
			Store: repository.NewStore(eeprom.NewMemory()),
			Motor: new(recordingMotor),
			Alarm: new(recordingAlarm),
			Timer: timer.NewSoft(sequence.ControlClockHz),
		})

		done := make(chan error, 1)

		go func() {
			done <- node.Run(t.Context())
		}()

		synctest.Wait()
		require.NoError(t, peerEnd.Close())

		err := <-done
		require.Error(t, err)
		require.NotErrorIs(t, err, context.Canceled)

		_ = nodeEnd.Close()
	})
}
