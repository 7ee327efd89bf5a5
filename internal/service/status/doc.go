// Package status implements lock-status, a small client of the control node
// status API. It prints the current status once or keeps polling it.
package status
