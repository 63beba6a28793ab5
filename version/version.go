// Package version reports the paperboy build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

// Set with -ldflags "-X github.com/kstenson/paperboy/version.Version=..." at
// release time. When left at their defaults the module build info is used.
var (
	Version   = "dev"
	GitCommit = unknown
	BuildDate = unknown
)

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
	Modified  bool
}

// Get returns the version information, filling gaps from the embedded
// build info.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(&info, bi)
	}
	info.Version = strings.TrimPrefix(info.Version, "v")
	return info
}

func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == unknown {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.time":
			if info.BuildDate == unknown {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// String renders the version the way --version prints it.
func (i Info) String() string {
	v := "paperboy " + i.Version
	if i.GitCommit != unknown {
		commit := i.GitCommit
		if i.Modified {
			commit += "-dirty"
		}
		v += fmt.Sprintf(" (commit %s, built %s)", commit, i.BuildDate)
	}
	return v + " " + i.GoVersion
}
