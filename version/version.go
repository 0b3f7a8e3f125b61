package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
)

// Product is the client name sent in the User-Agent header.
const Product = "createsend-go"

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	IsDirty   bool   `json:"is_dirty,omitempty"`
}

// Get returns version information, filling the commit from the embedded VCS
// stamp when ldflags did not set one.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.modified":
				info.IsDirty = s.Value == "true"
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// String returns "<version>[-<commit>][-dirty]".
func (i Info) String() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// UserAgent returns the default User-Agent, e.g.
// "createsend-go/1.2.0 (go1.25.0; linux/amd64)".
func UserAgent() string {
	info := Get()
	return fmt.Sprintf("%s/%s (%s; %s)", Product, info.Version, info.GoVersion, info.Platform)
}
