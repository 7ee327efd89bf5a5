package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/oshokin/door-lock/internal/hal"
)

var errKeypadClosed = errors.New("keypad closed")

// Keypad turns an input stream into key presses.
// Line breaks map to hal.KeyEnter; other whitespace is dropped.
type Keypad struct {
	keys chan byte
	errs chan error
	// done is closed by Close.
	done      chan struct{}
	closeOnce sync.Once
}

// NewKeypad starts reading r in the background.
// The reader goroutine exits when r returns an error, typically io.EOF, or once
// the keypad is closed and its current read returns.
func NewKeypad(r io.Reader) *Keypad {
	k := &Keypad{
		keys: make(chan byte),
		errs: make(chan error, 1),
		done: make(chan struct{}),
	}

	go k.pump(bufio.NewReader(r))

	return k
}

// ReadKey blocks until a key is available, the input ends, or ctx is done.
func (k *Keypad) ReadKey(ctx context.Context) (byte, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-k.done:
		return 0, errKeypadClosed
	case key := <-k.keys:
		return key, nil
	case err := <-k.errs:
		// Keep the error for later calls.
		k.errs <- err

		return 0, fmt.Errorf("read key: %w", err)
	}
}

func (k *Keypad) pump(r io.ByteReader) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			k.errs <- err
			return
		}

		switch b {
		case '\r', '\n':
			b = hal.KeyEnter
		case ' ', '\t':
			continue
		}

		select {
		case k.keys <- b:
		case <-k.done:
			return
		}
	}
}

// Close stops key delivery. It is safe to call more than once.
func (k *Keypad) Close() error {
	k.closeOnce.Do(func() { close(k.done) })

	return nil
}
