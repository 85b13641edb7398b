// Package version describes the build: its semantic version, the minimum version
// the verifier accepts, and toolchain details for the banner.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// Version is the release of this build; overridden with -ldflags "-X".
var Version = "1.2.0"

// Minimum is the lowest version that passes verification.
const Minimum = "1.0.0"

// Check reports whether v satisfies the minimum version.
func Check(v string) (bool, error) {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return false, fmt.Errorf("version: %q: %w", v, err)
	}
	c, err := semver.NewConstraint(">= " + Minimum)
	if err != nil {
		return false, err
	}
	return c.Check(parsed), nil
}

// Info is the build banner data.
type Info struct {
	Version   string
	GoVersion string
	Platform  string
	Revision  string
	Time      string
}

// Build returns this binary's banner data. VCS fields are empty outside a
// version-controlled build.
func Build() Info {
	info := Info{
		Version:   Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Revision = s.Value
			case "vcs.time":
				info.Time = s.Value
			}
		}
	}
	return info
}
