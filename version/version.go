// Package version carries build metadata injected via ldflags
package version

import "fmt"

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the bare version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date when set
func GetFullVersion() string {
	if Version == "dev" {
		return "dev"
	}
	if GitCommit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s, %s)", Version, GitCommit, BuildDate)
}
