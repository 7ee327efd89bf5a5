// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to a chosen sink,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Info, WarnKV, etc.).
//
// Both node state machines accept a context and extract the logger from it,
// so every line carries the node name and the state it was logged from.
package logger
