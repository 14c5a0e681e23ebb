// Package version provides build version information for the audiokit CLI.
//
// Version and commit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/epsilon-records/audiokit/version.Version=1.0.0"
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the release version, set at build time.
	Version = "dev"
	// GitCommit is the short commit hash, set at build time.
	GitCommit = ""
)

// String renders the version for the CLI version command.
func String() string {
	v := Version
	if GitCommit != "" {
		v = fmt.Sprintf("%s (%s)", v, GitCommit)
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		v = fmt.Sprintf("%s %s", v, info.GoVersion)
	}
	return v
}
