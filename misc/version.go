// Package misc keeps program identity: name, version and revision it was
// built from.
package misc

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const appName = "flexclass"

// Set at link time with -X, otherwise taken from build information.
var (
	version = ""
	gitHash = ""
)

// GetAppName returns program name.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && len(bi.Main.Version) > 0 && bi.Main.Version != "(devel)" {
		return strings.TrimPrefix(bi.Main.Version, "v")
	}
	return "dev"
}

// GetGitHash returns abbreviated VCS revision program was built from.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value[:min(len(s.Value), 8)]
			}
		}
	}
	return "unknown"
}

// GetExecName returns base name of running executable without extension.
func GetExecName() string {
	name, err := os.Executable()
	if err != nil {
		return appName
	}
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}
