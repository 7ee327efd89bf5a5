package hmi

// State is the interface node screen flow position.
type State uint8

const (
	// StateSettingPassword is the dual-entry credential setup.
	StateSettingPassword State = iota
	// StateMainMenu waits for '+' or '-'.
	StateMainMenu
	// StateVerifying runs up to MaxAttempts credential checks.
	StateVerifying
	// StateOpening shows the door screens.
	StateOpening
	// StateAlarming shows the alarm screen.
	StateAlarming
	// StateChangingPassword announces a change before re-entering setup.
	StateChangingPassword
)

func (s State) String() string {
	switch s {
	case StateSettingPassword:
		return "setting_password"
	case StateMainMenu:
		return "main_menu"
	case StateVerifying:
		return "verifying"
	case StateOpening:
		return "opening"
	case StateAlarming:
		return "alarming"
	case StateChangingPassword:
		return "changing_password"
	default:
		return "unknown"
	}
}
