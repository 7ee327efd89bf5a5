package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Soft is a Timer driven by the Go runtime clock.
// Notifications are delivered on a dedicated goroutine, the analogue of interrupt context.
type Soft struct {
	// clockHz is the emulated node clock.
	clockHz uint64
	// callback is the single registered observer.
	callback atomic.Pointer[Callback]

	// mu serializes Configure and Stop.
	mu sync.Mutex
	// cfg is the active configuration, nil while disarmed.
	cfg *Config
	// stop is closed to disarm the running goroutine.
	stop chan struct{}
	// done is closed once the running goroutine has exited.
	done chan struct{}
}

// NewSoft creates a disarmed timer for a node clocked at clockHz.
func NewSoft(clockHz uint64) *Soft {
	return &Soft{
		clockHz: clockHz,
	}
}

// Configure arms the timer. An active configuration is disarmed first.
func (t *Soft) Configure(cfg Config) error {
	first, period, err := Intervals(t.clockHz, cfg)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.disarm()

	armed := cfg
	t.cfg = &armed

	// NoClock: configured but never counting.
	if period == 0 {
		return nil
	}

	t.stop = make(chan struct{})
	t.done = make(chan struct{})

	go t.run(first, period, t.stop, t.done)

	return nil
}

// RegisterCallback replaces the registered observer; nil removes it.
func (t *Soft) RegisterCallback(cb Callback) {
	if cb == nil {
		t.callback.Store(nil)
		return
	}

	t.callback.Store(&cb)
}

// Stop disarms the timer and clears its configuration.
// No notification is delivered once Stop has returned.
func (t *Soft) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.disarm()
}

// Active returns the armed configuration.
func (t *Soft) Active() (Config, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cfg == nil {
		return Config{}, false
	}

	return *t.cfg, true
}

// disarm stops the goroutine and waits for it. Callers hold mu.
func (t *Soft) disarm() {
	if t.stop != nil {
		close(t.stop)
		<-t.done

		t.stop = nil
		t.done = nil
	}

	t.cfg = nil
}

// run fires the callback after first and then every period until stop is closed.
func (t *Soft) run(first, period time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	tm := time.NewTimer(first)
	defer tm.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tm.C:
			if cb := t.callback.Load(); cb != nil {
				(*cb)()
			}

			tm.Reset(period)
		}
	}
}
