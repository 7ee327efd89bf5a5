package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCountersClone verifies that Clone returns a copy and handles nil safely.
func TestCountersClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Counters)(nil).Clone())

	a := &Counters{ChecksPassed: 3, AlarmsRaised: 1}
	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
}

// TestStatusClone verifies that Status.Clone copies fields and deep-copies Counters.
func TestStatusClone(t *testing.T) {
	t.Parallel()

	s := Status{
		UpdatedAt:     time.Now().UTC().Truncate(time.Second),
		Counters:      &Counters{DoorsOpened: 2},
		State:         StateOpeningDoor,
		Motor:         "forward",
		CredentialSet: true,
	}

	c := s.Clone()
	require.Equal(t, s, *c)
	require.NotSame(t, s.Counters, c.Counters)

	c.Counters.DoorsOpened++
	require.Equal(t, uint64(2), s.Counters.DoorsOpened)
}
