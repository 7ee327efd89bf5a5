// Package lock contains the control node status snapshot.
//
// Status is what the control node reports about itself: the state of its
// dispatch loop, the actuator outputs and running totals. Clone helpers keep
// callers from mutating the node's copy.
package lock
