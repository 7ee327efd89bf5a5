// Package config defines the per-node hardware wiring settings and provides
// helpers to load, validate and save them in YAML format.
//
// The settings choose how a node reaches its peer (serial port or TCP), where
// the control node keeps its credential, which GPIO pins drive the motor and
// buzzer, and where the status API listens. The boot sequence and every
// timing of the state machines are fixed and not configurable.
package config
