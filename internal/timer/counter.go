package timer

import (
	"context"
	"sync/atomic"
	"time"
)

// Counter is the elapsed-interval count shared between a timer callback and the flow that armed it.
// Increment is safe to call from the callback while the owner polls.
type Counter struct {
	n atomic.Uint32
}

// Increment records one elapsed interval. Use it as the timer callback.
func (c *Counter) Increment() {
	c.n.Add(1)
}

// Load returns the current count.
func (c *Counter) Load() uint32 {
	return c.n.Load()
}

// ReadAndReset returns the current count and zeroes it in one atomic step.
func (c *Counter) ReadAndReset() uint32 {
	return c.n.Swap(0)
}

// WaitFor polls c every poll until it reaches target.
// Only ctx cancellation ends the wait early.
func WaitFor(ctx context.Context, c *Counter, target uint32, poll time.Duration) error {
	if c.Load() >= target {
		return nil
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if c.Load() >= target {
				return nil
			}
		}
	}
}
