package misc

import "testing"

func TestIdentity(t *testing.T) {
	if GetAppName() != "flexclass" {
		t.Errorf("GetAppName() = %q", GetAppName())
	}
	if GetVersion() == "" {
		t.Error("GetVersion() is empty")
	}
	if GetGitHash() == "" {
		t.Error("GetGitHash() is empty")
	}
	if GetExecName() == "" {
		t.Error("GetExecName() is empty")
	}
}

func TestLinkTimeValues(t *testing.T) {
	saveVersion, saveHash := version, gitHash
	t.Cleanup(func() { version, gitHash = saveVersion, saveHash })

	version, gitHash = "1.2.3", "abcdef01"
	if GetVersion() != "1.2.3" || GetGitHash() != "abcdef01" {
		t.Errorf("link time values ignored: %s %s", GetVersion(), GetGitHash())
	}
}
