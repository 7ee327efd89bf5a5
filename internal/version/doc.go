// Package version exposes build metadata for the project.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds.
// Banner and UserAgent identify a binary in logs and on the status API;
// AttachCobraVersionCommand adds a `version` subcommand to every CLI.
package version
