// Package version exposes build metadata injected via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Injected at build time; the defaults identify a from-source build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info is the resolved build metadata of the running binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Current returns the build metadata of this binary.
func Current() Info {
	return Info{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the metadata as a single human-readable line.
func (i Info) String() string {
	return fmt.Sprintf("kstar %s (commit: %s, built: %s, go: %s, %s)",
		i.Version, i.Commit, i.BuildTime, i.GoVersion, i.Platform)
}

// String is shorthand for Current().String().
func String() string {
	return Current().String()
}
