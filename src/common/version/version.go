// Package version provides version information structures for AidLink applications.
package version

import (
	"fmt"
	"runtime"
)

// Info holds version information for an AidLink binary.
// The values are set at build time via ldflags.
type Info struct {
	// Version is the full version string, e.g. "Levada (2026.08) - v1.0.0-ab12cd3"
	Version string

	// ReleaseName is the codename for this release
	ReleaseName string

	// ReleaseVersion is the semantic version (e.g., "1.0.0")
	ReleaseVersion string

	// BuildDate is the ISO 8601 build timestamp
	BuildDate string

	// GitCommit is the short git commit hash
	GitCommit string
}

// Default values for unset version info
var (
	DefaultVersion        = "dev"
	DefaultReleaseName    = "Levada"
	DefaultReleaseVersion = "0.0.0"
	DefaultBuildDate      = "unknown"
	DefaultGitCommit      = "unknown"
)

// New creates a new Info with default values
func New() *Info {
	return &Info{
		Version:        DefaultVersion,
		ReleaseName:    DefaultReleaseName,
		ReleaseVersion: DefaultReleaseVersion,
		BuildDate:      DefaultBuildDate,
		GitCommit:      DefaultGitCommit,
	}
}

// GoVersion returns the Go runtime version
func GoVersion() string {
	return runtime.Version()
}

// String returns a single-line description of the version
func (i *Info) String() string {
	return fmt.Sprintf("%s (%s) - built %s, commit %s",
		i.ReleaseName, i.ReleaseVersion, i.BuildDate, i.GitCommit)
}

// Full returns a multi-line description of the version, including the
// Go runtime that built the binary
func (i *Info) Full() string {
	return fmt.Sprintf("%s\n  Release:    %s\n  Version:    %s\n  Build Date: %s\n  Git Commit: %s\n  Go Version: %s",
		i.Version, i.ReleaseName, i.ReleaseVersion, i.BuildDate, i.GitCommit, GoVersion())
}

// Map returns the version fields keyed for structured output
func (i *Info) Map() map[string]string {
	return map[string]string{
		"version":         i.Version,
		"release_name":    i.ReleaseName,
		"release_version": i.ReleaseVersion,
		"build_date":      i.BuildDate,
		"git_commit":      i.GitCommit,
		"go_version":      GoVersion(),
	}
}
