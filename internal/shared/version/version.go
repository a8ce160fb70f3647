// Package version reports what build is running.
package version

import (
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/sortwise/sessiond/internal/shared/version.Version=v1.2.3".
var (
	Version = "dev"
	Commit  = ""
)

type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// Get fills in the commit from the embedded VCS stamp when the linker did
// not set it.
func Get() Info {
	info := Info{Version: Normalize(Version), Commit: Commit}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Normalize ensures version string has "v" prefix.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3", "dev" -> "dev"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || version == "dev" {
		return version
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}
