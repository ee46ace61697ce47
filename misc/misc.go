// Package misc provides build time information about the program.
package misc

import (
	"runtime/debug"
	"strings"
)

const appName = "gdc"

// set by the linker during release builds
var (
	version = ""
	gitHash = ""
)

// GetAppName returns short program name used for logs, temporary files and alike.
func GetAppName() string {
	return appName
}

// GetVersion returns program version, falling back to module build info when
// the linker did not set one.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "development"
}

// GetGitHash returns abbreviated hash of the source revision if known.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return strings.ToLower(s.Value[:7])
			}
		}
	}
	return "unknown"
}
