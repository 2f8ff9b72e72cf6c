// Package version provides build version information.
//
// Release builds set the values using ldflags:
//
//	go build -ldflags "-X github.com/atelierhq/atelier/internal/version.Version=v1.2.0 \
//	  -X github.com/atelierhq/atelier/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	// Version is the release version. It defaults to "dev" for local builds.
	Version = "dev"

	// Commit is the short git commit hash the binary was built from.
	Commit = ""
)

// String returns the version, with the commit hash when one is recorded.
func String() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}
