package credential

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/door-lock/internal/domain/credential"
	"github.com/oshokin/door-lock/internal/repository/eeprom"
)

var errTestDevice = errors.New("test device error")

// timedStorage records when each access happened.
type timedStorage struct {
	*eeprom.Memory

	// at holds the virtual time of each access.
	at []time.Time
	// failAt makes the n-th access fail when positive.
	failAt int
	// writes counts WriteByteAt calls.
	writes int
}

func (s *timedStorage) WriteByteAt(addr uint16, v byte) error {
	s.at = append(s.at, time.Now())
	s.writes++
	if len(s.at) == s.failAt {
		return errTestDevice
	}

	return s.Memory.WriteByteAt(addr, v)
}

func (s *timedStorage) ReadByteAt(addr uint16) (byte, error) {
	s.at = append(s.at, time.Now())

	return s.Memory.ReadByteAt(addr)
}

// readBlock reads n bytes from addr straight from the image.
func readBlock(t *testing.T, m *eeprom.Memory, addr uint16, n int) []byte {
	t.Helper()

	block := make([]byte, 0, n)

	for i := range n {
		b, err := m.ReadByteAt(addr + uint16(i))
		require.NoError(t, err)

		block = append(block, b)
	}

	return block
}

// TestStore_SaveLayout checks address layout and the settle delay between writes.
func TestStore_SaveLayout(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		dev := &timedStorage{Memory: eeprom.NewMemory()}
		store := NewStore(dev)

		c, err := domain.Parse("12345")
		require.NoError(t, err)

		require.NoError(t, store.Save(c))
		require.Equal(t, []byte("12345"), readBlock(t, dev.Memory, BaseAddress, 5))
		require.Equal(t, []byte{0xFF}, readBlock(t, dev.Memory, BaseAddress+5, 1))
		require.Len(t, dev.at, 5)

		for i := 1; i < len(dev.at); i++ {
			require.Equal(t, DefaultSettleDelay, dev.at[i].Sub(dev.at[i-1]))
		}
	})
}

// TestStore_Overwrite checks that a change replaces the previous credential in place.
func TestStore_Overwrite(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		dev := &timedStorage{Memory: eeprom.NewMemory()}
		store := NewStore(dev, WithSettleDelay(time.Millisecond))

		first, err := domain.Parse("11111")
		require.NoError(t, err)

		second, err := domain.Parse("22222")
		require.NoError(t, err)

		require.NoError(t, store.Save(first))
		require.NoError(t, store.Save(second))

		got, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, second, got)
		require.Equal(t, 10, dev.writes)
	})
}

// TestStore_IsSet distinguishes an erased device from a stored credential.
func TestStore_IsSet(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		store := NewStore(eeprom.NewMemory())

		set, err := store.IsSet(context.Background())
		require.NoError(t, err)
		require.False(t, set)

		c, err := domain.Parse("90210")
		require.NoError(t, err)
		require.NoError(t, store.Save(c))

		set, err = store.IsSet(context.Background())
		require.NoError(t, err)
		require.True(t, set)
	})
}

// TestStore_Errors surfaces device failures and cancellation.
func TestStore_Errors(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		dev := &timedStorage{Memory: eeprom.NewMemory(), failAt: 3}
		store := NewStore(dev)

		c, err := domain.Parse("12345")
		require.NoError(t, err)
		require.ErrorIs(t, store.Save(c), errTestDevice)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = store.Load(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
