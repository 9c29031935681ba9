// Package version holds build metadata injected with -ldflags.
package version

import "fmt"

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/rshade/metallca/pkg/version.Version=v0.3.0"
//
//nolint:gochecknoglobals // Populated by the linker.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the release version.
func GetVersion() string {
	return Version
}

// GetFullVersion returns version, commit and build date on one line.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
