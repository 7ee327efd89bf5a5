package protocol

import (
	"fmt"

	"github.com/oshokin/door-lock/internal/domain/credential"
)

// Kind tags the variant held by a Message.
type Kind uint8

const (
	// KindCommand is a single command byte.
	KindCommand Kind = iota + 1
	// KindCredential is a terminated credential payload.
	KindCredential
	// KindOutcome is a single outcome byte.
	KindOutcome
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindCredential:
		return "credential"
	case KindOutcome:
		return "outcome"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Message is one unit exchanged on the Command Channel.
// Only the field matching Kind is meaningful.
type Message struct {
	// Kind selects the variant.
	Kind Kind
	// Command is set for KindCommand.
	Command Command
	// Credential is set for KindCredential.
	Credential credential.Credential
	// Outcome is set for KindOutcome.
	Outcome Outcome
}

// CommandMessage wraps a command code.
func CommandMessage(c Command) Message {
	return Message{Kind: KindCommand, Command: c}
}

// CredentialMessage wraps a credential payload.
func CredentialMessage(c credential.Credential) Message {
	return Message{Kind: KindCredential, Credential: c}
}

// OutcomeMessage wraps a comparison result.
func OutcomeMessage(ok bool) Message {
	return Message{Kind: KindOutcome, Outcome: OutcomeOf(ok)}
}

func (m Message) String() string {
	switch m.Kind {
	case KindCommand:
		return m.Command.String()
	case KindCredential:
		return "credential " + m.Credential.String()
	case KindOutcome:
		return m.Outcome.String()
	default:
		return m.Kind.String()
	}
}
