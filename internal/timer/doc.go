// Package timer models the 16-bit interval timer each node owns.
//
// A Timer is armed with a Config, notifies a single registered Callback once
// per threshold crossing, and is disarmed by Stop. Soft implements the contract
// on top of the Go runtime clock while keeping the register arithmetic of the
// hardware it replaces, so durations are expressed as compare values and
// prescalers exactly like on the device.
package timer
