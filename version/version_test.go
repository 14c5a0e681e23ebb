package version

import (
	"strings"
	"testing"
)

func TestString_ContainsVersion(t *testing.T) {
	if !strings.Contains(String(), Version) {
		t.Errorf("expected %q in %q", Version, String())
	}
}

func TestString_IncludesCommitWhenSet(t *testing.T) {
	old := GitCommit
	defer func() { GitCommit = old }()

	GitCommit = "abc1234"
	if !strings.Contains(String(), "abc1234") {
		t.Errorf("expected commit in %q", String())
	}
}
