package timer

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// compareConfig arms a 1 ms compare period on a 1 MHz clock.
func compareConfig() Config {
	return Config{
		CompareThreshold: 999,
		Prescaler:        Div1,
		Mode:             ModeCompare,
	}
}

// TestSoft_NotifiesOncePerPeriod counts notifications across virtual time.
func TestSoft_NotifiesOncePerPeriod(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var c Counter

		tm := NewSoft(1_000_000)
		tm.RegisterCallback(c.Increment)

		// 1000 ticks at 1 MHz: one notification per millisecond.
		require.NoError(t, tm.Configure(compareConfig()))

		time.Sleep(10*time.Millisecond + time.Microsecond)
		synctest.Wait()
		require.Equal(t, uint32(10), c.Load())

		tm.Stop()

		time.Sleep(time.Second)
		synctest.Wait()
		require.Equal(t, uint32(10), c.Load())
	})
}

// TestSoft_StopIsIdempotent stops a timer with nothing armed and checks the count is untouched.
func TestSoft_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var c Counter

		c.Increment()

		tm := NewSoft(8_000_000)
		tm.RegisterCallback(c.Increment)

		tm.Stop()
		tm.Stop()

		_, armed := tm.Active()
		require.False(t, armed)
		require.Equal(t, uint32(1), c.Load())

		require.NoError(t, tm.Configure(compareConfig()))

		cfg, armed := tm.Active()
		require.True(t, armed)
		require.Equal(t, compareConfig(), cfg)

		tm.Stop()
		tm.Stop()

		_, armed = tm.Active()
		require.False(t, armed)
	})
}

// TestSoft_RegisterReplaces checks that only the latest callback observes notifications.
func TestSoft_RegisterReplaces(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var first, second Counter

		tm := NewSoft(1_000_000)
		tm.RegisterCallback(first.Increment)
		tm.RegisterCallback(second.Increment)

		require.NoError(t, tm.Configure(compareConfig()))
		time.Sleep(5*time.Millisecond + time.Microsecond)
		tm.Stop()

		require.Zero(t, first.Load())
		require.Equal(t, uint32(5), second.Load())
	})
}

// TestSoft_NoClockNeverFires arms a stopped prescaler.
func TestSoft_NoClockNeverFires(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var c Counter

		tm := NewSoft(1_000_000)
		tm.RegisterCallback(c.Increment)

		require.NoError(t, tm.Configure(Config{Prescaler: NoClock, Mode: ModeCompare, CompareThreshold: 1}))
		time.Sleep(time.Hour)
		tm.Stop()

		require.Zero(t, c.Load())
	})
}

// TestSoft_RejectsInvalidConfig leaves the timer disarmed on error.
func TestSoft_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tm := NewSoft(1_000_000)

	err := tm.Configure(Config{Prescaler: Div1, Mode: ModeCompare, InitialCount: 5, CompareThreshold: 1})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, armed := tm.Active()
	require.False(t, armed)
}

// TestCounter_ConcurrentIncrements exercises the callback/owner race the counter guards against.
func TestCounter_ConcurrentIncrements(t *testing.T) {
	t.Parallel()

	var (
		c     Counter
		wg    sync.WaitGroup
		total uint32
		mu    sync.Mutex
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 1000 {
				c.Increment()
			}
		}()
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		for range 100 {
			n := c.ReadAndReset()

			mu.Lock()
			total += n
			mu.Unlock()
		}
	}()

	wg.Wait()

	total += c.ReadAndReset()
	require.Equal(t, uint32(8000), total)
	require.Zero(t, c.Load())
}

// TestWaitFor returns once the target is reached and honours cancellation.
func TestWaitFor(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var c Counter

		tm := NewSoft(1_000_000)
		tm.RegisterCallback(c.Increment)
		require.NoError(t, tm.Configure(compareConfig()))

		start := time.Now()
		require.NoError(t, WaitFor(context.Background(), &c, 3, 100*time.Microsecond))
		tm.Stop()

		require.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
		require.Less(t, time.Since(start), 3*time.Millisecond+200*time.Microsecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		require.ErrorIs(t, WaitFor(ctx, &c, 100, time.Millisecond), context.DeadlineExceeded)

		// Already reached: no wait at all.
		require.NoError(t, WaitFor(context.Background(), &c, 0, time.Millisecond))
	})
}
