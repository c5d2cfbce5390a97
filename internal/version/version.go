package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build information (set via ldflags during build)
var (
	// Version is the release of pmdview
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"

	// BuiltBy indicates how the binary was built
	BuiltBy = "source"
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// GetVersion returns the release, falling back to the module version
// recorded by `go install` for untagged builds
func GetVersion() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}

// GetInfo returns the build information of the running binary
func GetInfo() Info {
	return Info{
		Version:   GetVersion(),
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: runtime.Version(),
	}
}

// GetFullVersion returns the full version information
func GetFullVersion() string {
	info := GetInfo()
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s, %s)",
		info.Version, info.Commit, info.Date, info.BuiltBy, info.GoVersion)
}
