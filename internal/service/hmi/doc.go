// Package hmi implements the interface node.
//
// The node owns the keypad and the character display. It asks the user for a
// new credential at boot, then shows a two-option menu: open the door or
// change the credential. Both options are guarded by up to three credential
// checks on the control node; running out of attempts raises the alarm on
// both nodes. The door and alarm screens are timed to last exactly as long
// as the matching sequences on the control node.
package hmi
