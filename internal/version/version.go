// Package version reports build information for the pivot engine and its CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	unknownValue     = "unknown"
	commitHashLength = 7
)

// Build-time variables set by ldflags:
//
//	go build -ldflags "-X github.com/quocdat202/pivot/internal/version.Version=v1.2.0"
var (
	Version   = "dev"
	BuildDate = unknownValue
	GitCommit = unknownValue
	GoVersion = runtime.Version()
)

// BuildInfo contains detailed build information
type BuildInfo struct {
	Version   string            `json:"version" yaml:"version"`
	BuildDate string            `json:"build_date" yaml:"build_date"`
	GitCommit string            `json:"git_commit" yaml:"git_commit"`
	GoVersion string            `json:"go_version" yaml:"go_version"`
	BuildTime time.Time         `json:"build_time" yaml:"build_time"`
	Dirty     bool              `json:"dirty" yaml:"dirty"`
	Module    string            `json:"module,omitempty" yaml:"module,omitempty"`
	Deps      map[string]string `json:"deps,omitempty" yaml:"deps,omitempty"`
}

// Info returns the build information of the running binary. Dependency
// versions come from the module data embedded by the Go toolchain.
func Info() BuildInfo {
	buildTime, err := time.Parse(time.RFC3339, BuildDate)
	if err != nil {
		buildTime = time.Time{}
	}

	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: GoVersion,
		BuildTime: buildTime,
		Dirty:     strings.HasSuffix(GitCommit, "-dirty"),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Module = bi.Main.Path
		for _, dep := range bi.Deps {
			if info.Deps == nil {
				info.Deps = make(map[string]string, len(bi.Deps))
			}
			info.Deps[dep.Path] = dep.Version
		}
		for _, s := range bi.Settings {
			if s.Key == "vcs.modified" && s.Value == "true" {
				info.Dirty = true
			}
		}
	}

	return info
}

// Short returns the one-line form used by --version.
func (b BuildInfo) Short() string {
	s := b.Version
	if b.GitCommit != unknownValue && b.GitCommit != "" {
		s += " (" + shortCommit(b.GitCommit) + ")"
	}
	return s
}

// String returns a formatted multi-line version report.
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("Pivot Table Engine\n")
	fmt.Fprintf(&sb, "Version: %s", b.Version)
	switch {
	case b.Dirty:
		sb.WriteString(" (dirty)")
	case !b.IsRelease():
		sb.WriteString(" (development build)")
	}
	sb.WriteString("\n")

	if b.BuildDate != unknownValue {
		fmt.Fprintf(&sb, "Build Date: %s\n", b.BuildDate)
	}
	if b.GitCommit != unknownValue {
		fmt.Fprintf(&sb, "Git Commit: %s\n", shortCommit(b.GitCommit))
	}
	fmt.Fprintf(&sb, "Go Version: %s\n", b.GoVersion)
	if b.Module != "" {
		fmt.Fprintf(&sb, "Module: %s\n", b.Module)
	}
	return sb.String()
}

func shortCommit(commit string) string {
	commit = strings.TrimSuffix(commit, "-dirty")
	if len(commit) > commitHashLength {
		return commit[:commitHashLength]
	}
	return commit
}

// IsRelease reports whether b describes a tagged release build.
func (b BuildInfo) IsRelease() bool {
	return b.Version != "dev" && !strings.Contains(b.Version, "-")
}
