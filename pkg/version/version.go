package version

import "fmt"

var (
	// Version contains the current version of reachd
	Version = "dev"

	// CommitHash contains the current git commit hash
	CommitHash = "unknown"

	// BuildTime contains the time of build
	BuildTime = "unknown"
)

// String formats the build information for -version output.
func String() string {
	return fmt.Sprintf("reachd %s (commit %s, built %s)", Version, CommitHash, BuildTime)
}
