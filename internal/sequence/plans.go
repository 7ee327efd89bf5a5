package sequence

// Phase names shared by both nodes' logs.
const (
	PhaseForward   = "forward"
	PhaseHold      = "hold"
	PhaseReverse   = "reverse"
	PhaseAlarm     = "alarm"
	PhaseUnlocking = "unlocking"
	PhaseLocking   = "locking"
)

// DoorPlan is the control node door sequence: long forward, short hold, long reverse.
// The caller stops the motor once the plan has run.
func DoorPlan(forward, hold, reverse func() error) []Phase {
	return []Phase{
		{Name: PhaseForward, Enter: forward, Compare: DoorDriveCompare, Repeats: DoorDriveRepeats},
		{Name: PhaseHold, Enter: hold, Compare: DoorHoldCompare, Repeats: DoorHoldRepeats},
		{Name: PhaseReverse, Enter: reverse, Compare: DoorDriveCompare, Repeats: DoorDriveRepeats},
	}
}

// AlarmPlan is the control node alarm: one phase of AlarmRepeats intervals.
// The caller de-asserts the output once the plan has run.
func AlarmPlan(assert func() error) []Phase {
	return []Phase{
		{Name: PhaseAlarm, Enter: assert, Compare: AlarmCompare, Repeats: AlarmRepeats},
	}
}

// DoorDisplayPlan is the interface node view of the door sequence.
func DoorDisplayPlan(unlocking, locking func() error) []Phase {
	return []Phase{
		{Name: PhaseUnlocking, Enter: unlocking, Compare: UnlockingCompare, Repeats: SingleInterval},
		{Name: PhaseLocking, Enter: locking, Compare: LockingCompare, Repeats: SingleInterval},
	}
}

// AlarmDisplayPlan is the interface node view of the alarm.
func AlarmDisplayPlan(show func() error) []Phase {
	return []Phase{
		{Name: PhaseAlarm, Enter: show, Compare: AlarmDisplayCompare, Repeats: SingleInterval},
	}
}
