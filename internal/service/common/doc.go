// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the control node status API and
// the wiring that turns node settings into hardware adapters: the credential
// storage device and the motor and buzzer outputs.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
