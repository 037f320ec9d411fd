// Package version carries the build information stamped in by the release
// pipeline.
package version

import (
	"fmt"
	"runtime"
)

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/dockplate/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/dockplate/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/dockplate/internal/version.Date={{.Date}}
)

// Info is the build information of the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the multi-line block printed by `dockplate version`
func (i Info) String() string {
	return fmt.Sprintf("dockplate version %s\n  commit:   %s\n  built:    %s\n  go:       %s\n  platform: %s\n",
		i.Version, i.Commit, i.Date, i.GoVersion, i.Platform)
}
