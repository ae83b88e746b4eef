// Package version reports the build version of the mazerion binary.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X github.com/rshade/mazerion/pkg/version.version=...".
//
//nolint:gochecknoglobals // Overridden through ldflags.
var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns the version string the binary was built with.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// Semver parses the build version. A leading "v" is accepted.
func Semver() (*semver.Version, error) {
	return parse(version)
}

func parse(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing build version %q: %w", raw, err)
	}
	return v, nil
}

// Info is the structured form printed by `mazerion version`.
type Info struct {
	Version    string `json:"version"`
	Major      uint64 `json:"major"`
	Minor      uint64 `json:"minor"`
	Patch      uint64 `json:"patch"`
	Prerelease string `json:"prerelease,omitempty"`
	GitCommit  string `json:"git_commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
}

// GetInfo returns the build information. The numeric fields stay zero when
// the version is not a semantic version.
func GetInfo() Info {
	return InfoFor(version)
}

// InfoFor is GetInfo for an explicit version string.
func InfoFor(ver string) Info {
	info := Info{
		Version:   ver,
		GitCommit: gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	}
	if v, err := parse(ver); err == nil {
		info.Major = v.Major()
		info.Minor = v.Minor()
		info.Patch = v.Patch()
		info.Prerelease = v.Prerelease()
	}
	return info
}
