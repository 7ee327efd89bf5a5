package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/oshokin/door-lock/internal/domain/credential"
)

var (
	// ErrUnknownCommand is returned for a command byte outside the known set.
	// The byte has been consumed; the stream is still in sync.
	ErrUnknownCommand = errors.New("unknown command byte")
	// ErrUnknownOutcome is returned for an outcome byte other than 'S' or 'F'.
	ErrUnknownOutcome = errors.New("unknown outcome byte")
	// ErrMalformedPayload is returned when a terminated payload is not a credential.
	// The whole payload has been consumed.
	ErrMalformedPayload = errors.New("malformed credential payload")
	// ErrPayloadTooLong is returned when a payload runs past the payload bound.
	// The rest of the payload up to both terminators has been consumed.
	ErrPayloadTooLong = errors.New("credential payload too long")

	errUnknownKind = errors.New("unknown message kind")
)

// Encode serializes m into its exact wire bytes.
func Encode(m Message) ([]byte, error) {
	switch m.Kind {
	case KindCommand:
		return []byte{byte(m.Command)}, nil
	case KindCredential:
		return appendTerminated(make([]byte, 0, credential.Length+2), m.Credential[:]), nil
	case KindOutcome:
		if !m.Outcome.Valid() {
			return nil, fmt.Errorf("encode %s: %w", m.Outcome, ErrUnknownOutcome)
		}

		return []byte{byte(m.Outcome)}, nil
	default:
		return nil, fmt.Errorf("encode: %w: %s", errUnknownKind, m.Kind)
	}
}

// Decode reads one message of the expected kind from r.
// The wire carries no tags, so the caller names the kind it expects next.
func Decode(r io.ByteReader, kind Kind) (Message, error) {
	switch kind {
	case KindCommand:
		b, err := r.ReadByte()
		if err != nil {
			return Message{}, err
		}

		m := CommandMessage(Command(b))
		if !m.Command.Valid() {
			return m, fmt.Errorf("%w: %#02x", ErrUnknownCommand, b)
		}

		return m, nil
	case KindCredential:
		payload, err := readTerminated(r)
		if err != nil {
			return Message{}, err
		}

		c, err := credential.FromBytes(payload)
		if err != nil {
			return Message{Kind: KindCredential}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}

		return CredentialMessage(c), nil
	case KindOutcome:
		b, err := r.ReadByte()
		if err != nil {
			return Message{}, err
		}

		m := Message{Kind: KindOutcome, Outcome: Outcome(b)}
		if !m.Outcome.Valid() {
			return m, fmt.Errorf("%w: %#02x", ErrUnknownOutcome, b)
		}

		return m, nil
	default:
		return Message{}, fmt.Errorf("decode: %w: %s", errUnknownKind, kind)
	}
}

// appendTerminated appends payload followed by both terminators.
func appendTerminated(dst, payload []byte) []byte {
	dst = append(dst, payload...)

	return append(dst, PayloadTerminator, StringTerminator)
}

// readTerminated reads up to PayloadTerminator, then the StringTerminator after it.
// Bytes past maxPayload are discarded so an over-long payload still leaves the stream in sync.
func readTerminated(r io.ByteReader) ([]byte, error) {
	payload := make([]byte, 0, credential.Length)
	overflow := false

	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}

		if b == PayloadTerminator {
			break
		}

		if len(payload) == maxPayload {
			overflow = true

			continue
		}

		payload = append(payload, b)
	}

	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	if b != StringTerminator {
		return nil, fmt.Errorf("%w: %#02x after terminator", ErrMalformedPayload, b)
	}

	if overflow {
		return nil, ErrPayloadTooLong
	}

	return payload, nil
}
