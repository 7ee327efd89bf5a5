package protocol

import (
	"bufio"
	"fmt"
	"io"

	"github.com/oshokin/door-lock/internal/domain/credential"
)

// Channel is the byte-oriented duplex link between the two nodes.
// Reliability and ordering come from the underlying link; Channel adds no framing,
// retransmission or checksums. A Channel is owned by a single node goroutine.
type Channel struct {
	// r buffers reads so single bytes can be consumed cheaply.
	r *bufio.Reader
	// w is the raw link; every send is a single Write.
	w io.Writer
}

// NewChannel wraps the provided link.
func NewChannel(link io.ReadWriter) *Channel {
	return &Channel{
		r: bufio.NewReader(link),
		w: link,
	}
}

// SendByte writes a single byte.
func (c *Channel) SendByte(b byte) error {
	if _, err := c.w.Write([]byte{b}); err != nil {
		return fmt.Errorf("send byte: %w", err)
	}

	return nil
}

// ReceiveByte blocks until one byte arrives.
func (c *Channel) ReceiveByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("receive byte: %w", err)
	}

	return b, nil
}

// SendTerminatedString writes s followed by '#' and the NUL string terminator.
func (c *Channel) SendTerminatedString(s []byte) error {
	if _, err := c.w.Write(appendTerminated(make([]byte, 0, len(s)+2), s)); err != nil {
		return fmt.Errorf("send string: %w", err)
	}

	return nil
}

// ReceiveTerminatedString blocks until a full terminated string arrives and returns it without terminators.
func (c *Channel) ReceiveTerminatedString() ([]byte, error) {
	s, err := readTerminated(c.r)
	if err != nil {
		return nil, fmt.Errorf("receive string: %w", err)
	}

	return s, nil
}

// Send encodes and writes m.
func (c *Channel) Send(m Message) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}

	if _, err = c.w.Write(data); err != nil {
		return fmt.Errorf("send %s: %w", m.Kind, err)
	}

	return nil
}

// Receive blocks until a message of the given kind is decoded.
func (c *Channel) Receive(kind Kind) (Message, error) {
	m, err := Decode(c.r, kind)
	if err != nil {
		return m, fmt.Errorf("receive %s: %w", kind, err)
	}

	return m, nil
}

// SendCommand sends a single command byte.
func (c *Channel) SendCommand(cmd Command) error {
	return c.Send(CommandMessage(cmd))
}

// SendCredential sends a terminated credential payload.
func (c *Channel) SendCredential(cred credential.Credential) error {
	return c.Send(CredentialMessage(cred))
}

// SendOutcome sends the reply to a comparison.
func (c *Channel) SendOutcome(ok bool) error {
	return c.Send(OutcomeMessage(ok))
}

// ReceiveCommand blocks for the next command byte.
// An unknown byte yields ErrUnknownCommand together with the raw Command.
func (c *Channel) ReceiveCommand() (Command, error) {
	m, err := c.Receive(KindCommand)

	return m.Command, err
}

// ReceiveCredential blocks for the next credential payload.
func (c *Channel) ReceiveCredential() (credential.Credential, error) {
	m, err := c.Receive(KindCredential)

	return m.Credential, err
}

// ReceiveOutcome blocks for the next outcome byte.
func (c *Channel) ReceiveOutcome() (Outcome, error) {
	m, err := c.Receive(KindOutcome)

	return m.Outcome, err
}
