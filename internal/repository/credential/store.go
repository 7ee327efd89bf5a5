package credential

import (
	"context"
	"fmt"
	"time"

	domain "github.com/oshokin/door-lock/internal/domain/credential"
	"github.com/oshokin/door-lock/internal/hal"
)

const (
	// BaseAddress is where the first credential digit lives.
	BaseAddress uint16 = 0x0311

	// DefaultSettleDelay is the wait after each storage access.
	DefaultSettleDelay = 10 * time.Millisecond
)

// Store reads and writes the credential.
type Store struct {
	// device is the persistent memory.
	device hal.Storage
	// settle is the wait after each access.
	settle time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithSettleDelay overrides the per-access settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.settle = d
		}
	}
}

// NewStore creates a store over device.
func NewStore(device hal.Storage, opts ...Option) *Store {
	s := &Store{
		device: device,
		settle: DefaultSettleDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Save overwrites the stored credential.
// All bytes are written before Save returns; cancellation is not honoured mid-write
// so the stored value is never a mix of two credentials.
func (s *Store) Save(c domain.Credential) error {
	for i, b := range c {
		if err := s.device.WriteByteAt(BaseAddress+uint16(i), b); err != nil {
			return fmt.Errorf("save credential byte %d: %w", i, err)
		}

		time.Sleep(s.settle)
	}

	return nil
}

// Load reads the stored credential.
// The bytes are returned as stored, even if they are not digits, so an unset store never matches.
func (s *Store) Load(ctx context.Context) (domain.Credential, error) {
	var c domain.Credential

	for i := range c {
		b, err := s.device.ReadByteAt(BaseAddress + uint16(i))
		if err != nil {
			return c, fmt.Errorf("load credential byte %d: %w", i, err)
		}

		c[i] = b

		select {
		case <-ctx.Done():
			return c, ctx.Err()
		case <-time.After(s.settle):
		}
	}

	return c, nil
}

// IsSet reports whether the stored bytes form a valid credential.
func (s *Store) IsSet(ctx context.Context) (bool, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return false, err
	}

	_, err = domain.FromBytes(c[:])

	return err == nil, nil
}
