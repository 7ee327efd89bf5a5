package credential

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Length is the number of digits in a credential.
	Length = 5

	// mask is echoed in place of each digit on the display and in logs.
	mask = '*'
)

// ErrInvalid is returned when a value is not exactly Length decimal digits.
var ErrInvalid = errors.New("credential must be exactly 5 decimal digits")

// Credential is the digit sequence guarding the lock.
// Two credentials are equal iff their bytes are identical; no normalization is applied.
type Credential [Length]byte

// Parse validates s and returns it as a Credential.
func Parse(s string) (Credential, error) {
	return FromBytes([]byte(s))
}

// FromBytes validates b and returns it as a Credential.
func FromBytes(b []byte) (Credential, error) {
	var c Credential

	if len(b) != Length {
		return c, fmt.Errorf("%w: got %d bytes", ErrInvalid, len(b))
	}

	for i, d := range b {
		if !IsDigit(d) {
			return c, fmt.Errorf("%w: byte %d is %#02x", ErrInvalid, i, d)
		}

		c[i] = d
	}

	return c, nil
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// String masks the digits so a credential never leaks into logs.
func (c Credential) String() string {
	return strings.Repeat(string(mask), Length)
}

// Entry accumulates keypad digits until exactly Length of them were accepted.
// The zero value is an empty entry.
type Entry struct {
	// digits holds accepted keys in order.
	digits Credential
	// n is the number of accepted digits.
	n int
}

// Push offers a key to the entry.
// Only digits are accepted and only while the entry is not full.
func (e *Entry) Push(key byte) bool {
	if e.Full() || !IsDigit(key) {
		return false
	}

	e.digits[e.n] = key
	e.n++

	return true
}

// Full reports whether Length digits were accepted.
func (e *Entry) Full() bool {
	return e.n == Length
}

// Credential returns the accepted digits once the entry is full.
func (e *Entry) Credential() (Credential, bool) {
	if !e.Full() {
		return Credential{}, false
	}

	return e.digits, true
}

// Mask returns the character echoed for each accepted digit.
func Mask() byte {
	return mask
}
