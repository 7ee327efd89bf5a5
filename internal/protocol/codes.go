package protocol

import "fmt"

// Command is a request byte sent from the interface node to the control node.
type Command byte

const (
	// CheckPass asks the control node to compare the credential that follows with the stored one.
	CheckPass Command = 0x10
	// IncorrectPass tells the control node to sound the alarm. No reply is sent.
	IncorrectPass Command = 0x11
	// OpenDoor tells the control node to run the door sequence. No reply is sent.
	OpenDoor Command = 0x12
	// ChangePass re-enters the control node setup flow.
	ChangePass Command = 0x13
)

// Valid reports whether c is one of the known commands.
func (c Command) Valid() bool {
	switch c {
	case CheckPass, IncorrectPass, OpenDoor, ChangePass:
		return true
	default:
		return false
	}
}

func (c Command) String() string {
	switch c {
	case CheckPass:
		return "CHECK_PASS"
	case IncorrectPass:
		return "INCORRECT_PASS"
	case OpenDoor:
		return "OPEN_DOOR"
	case ChangePass:
		return "CHANGE_PASS"
	default:
		return fmt.Sprintf("UNKNOWN(%#02x)", byte(c))
	}
}

// Outcome is the one-byte reply to a credential comparison or save.
type Outcome byte

const (
	// Success means the credentials matched.
	Success Outcome = 'S'
	// Failure means the credentials did not match.
	Failure Outcome = 'F'
)

// OutcomeOf maps a comparison result to its Outcome.
func OutcomeOf(ok bool) Outcome {
	if ok {
		return Success
	}

	return Failure
}

// Valid reports whether o is Success or Failure.
func (o Outcome) Valid() bool {
	return o == Success || o == Failure
}

// OK reports whether o is Success.
func (o Outcome) OK() bool {
	return o == Success
}

func (o Outcome) String() string {
	switch o {
	case Success:
		return "SUCCESS"
	case Failure:
		return "FAILURE"
	default:
		return fmt.Sprintf("UNKNOWN(%#02x)", byte(o))
	}
}

const (
	// PayloadTerminator ends a credential payload on the wire.
	PayloadTerminator byte = '#'
	// StringTerminator follows PayloadTerminator.
	StringTerminator byte = 0x00

	// maxPayload bounds how many bytes are read while looking for PayloadTerminator.
	maxPayload = 16
)
