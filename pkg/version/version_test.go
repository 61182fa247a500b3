package version

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	if Version != "dev" {
		t.Errorf("default Version = %q, want %q", Version, "dev")
	}
	if GitCommit != "unknown" || BuildDate != "unknown" {
		t.Errorf("default GitCommit/BuildDate = %q/%q", GitCommit, BuildDate)
	}
}

func TestInfo(t *testing.T) {
	defer func(v, c, d string) { Version, GitCommit, BuildDate = v, c, d }(Version, GitCommit, BuildDate)
	Version, GitCommit, BuildDate = "v0.3.0", "abc1234", "2026-01-01"

	got := Info()
	if !strings.HasPrefix(got, "v0.3.0 (abc1234) built 2026-01-01 go") {
		t.Errorf("Info() = %q", got)
	}
}
