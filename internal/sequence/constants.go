package sequence

import "github.com/oshokin/door-lock/internal/timer"

// Node clocks and the prescaler both nodes arm their timer with.
const (
	// ControlClockHz is the control node clock.
	ControlClockHz uint64 = 8_000_000
	// HMIClockHz is the interface node clock.
	HMIClockHz uint64 = 1_000_000
	// Prescaler divides either clock before the counter.
	Prescaler = timer.Div1024
)

// Control node compare values at 8 MHz / 1024.
const (
	// DoorDriveCompare is 7.5 s; the door drives for DoorDriveRepeats of them.
	DoorDriveCompare uint16 = 58593
	// DoorDriveRepeats makes a 15 s drive phase.
	DoorDriveRepeats uint32 = 2
	// DoorHoldCompare is the 3 s pause with the door unlocked.
	DoorHoldCompare uint16 = 23437
	// DoorHoldRepeats is one 3 s interval.
	DoorHoldRepeats uint32 = 1
	// AlarmCompare is 6 s; the buzzer sounds for AlarmRepeats of them.
	AlarmCompare uint16 = 46874
	// AlarmRepeats makes a 60 s alarm.
	AlarmRepeats uint32 = 10
)

// Interface node compare values at 1 MHz / 1024.
const (
	// UnlockingCompare is 18 s: forward drive plus hold on the control node.
	UnlockingCompare uint16 = 17577
	// LockingCompare is 15 s: reverse drive on the control node.
	LockingCompare uint16 = 14647
	// AlarmDisplayCompare is the 60 s alarm message.
	AlarmDisplayCompare uint16 = 58593
	// SingleInterval is the repeat count of every interface node phase.
	SingleInterval uint32 = 1
)
