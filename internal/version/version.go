// Package version reports how the retrospec binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set through -ldflags "-X github.com/teranos/retrospec/internal/version.Version=..."
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = ""
)

// Target names the test framework generated specs are written for.
const Target = "rspec-puppet"

// Info is the build description printed by `retrospec version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	Target    string `json:"target"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get combines ldflags values with the module build info. A binary built
// with `go install` has no ldflags but still records its VCS revision.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    CommitHash,
		BuiltAt:   BuildTime,
		Target:    Target,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuiltAt == "" {
				info.BuiltAt = s.Value
			}
		}
	}
}

// String is the one-line form, e.g. "retrospec v0.2.0 (abc1234, 2026-01-02T10:00:00Z)".
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		commit = "unknown commit"
	}
	if i.BuiltAt == "" {
		return fmt.Sprintf("retrospec %s (%s)", i.Version, commit)
	}
	return fmt.Sprintf("retrospec %s (%s, %s)", i.Version, commit, i.BuiltAt)
}
