package version

import "fmt"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "1.0.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Banner returns the startup line logged by each binary.
func Banner(binary string) string {
	return fmt.Sprintf("%s %s (commit %s, built at %s)", binary, Version, Commit, BuildTime)
}

// UserAgent identifies a binary to remote services.
func UserAgent(binary string) string {
	return binary + "/" + Version
}
