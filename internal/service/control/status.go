package control

import (
	"context"
	"sync"
	"time"

	"github.com/oshokin/door-lock/internal/domain/lock"
)

// tracker keeps the node status for concurrent readers.
type tracker struct {
	// status is the current snapshot.
	status *lock.Status
	// mu protects status.
	mu sync.RWMutex
}

func newTracker() *tracker {
	return &tracker{
		status: &lock.Status{
			UpdatedAt: time.Now(),
			Counters:  new(lock.Counters),
			State:     lock.StateSetup,
			Motor:     "stop",
		},
	}
}

// update applies fn under the lock and stamps the change time.
func (t *tracker) update(fn func(s *lock.Status)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn(t.status)
	t.status.UpdatedAt = time.Now()
}

// setState moves the node to state.
func (t *tracker) setState(state lock.State) {
	t.update(func(s *lock.Status) {
		s.State = state
	})
}

func (t *tracker) snapshot() *lock.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.status.Clone()
}

// Status returns a copy of the current node status.
func (n *Node) Status(_ context.Context) (*lock.Status, error) {
	return n.status.snapshot(), nil
}
