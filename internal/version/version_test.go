package version

import (
	"strings"
	"testing"
)

func TestGetVersion_Release(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got := GetVersion(); got != "v1.2.3" {
		t.Errorf("Expected v1.2.3, got %s", got)
	}
}

func TestGetVersion_Dev(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = ""
	if got := GetVersion(); got == "" {
		t.Error("Expected a non-empty version")
	}
}

func TestGetFullVersion(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version = "v0.3.0"
	Commit = "abc1234"
	full := GetFullVersion()
	if !strings.HasPrefix(full, "v0.3.0 (commit: abc1234") {
		t.Errorf("Unexpected full version %q", full)
	}
	if info := GetInfo(); info.GoVersion == "" {
		t.Error("Expected the Go version to be set")
	}
}
