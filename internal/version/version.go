// Package version reports build information of the zgl binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// EngineModule is the module path of the bundling engine.
const EngineModule = "github.com/evanw/esbuild"

// BuildInfo contains version and build information
type BuildInfo struct {
	Version       string    `json:"version"`
	GitCommit     string    `json:"git_commit"`
	BuildTime     time.Time `json:"build_time"`
	GoVersion     string    `json:"go_version"`
	Platform      string    `json:"platform"`
	EngineVersion string    `json:"engine_version"`
	Dirty         bool      `json:"dirty,omitempty"`
}

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version of the application
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"

	// BuildTime is the time when the binary was built (RFC3339 format)
	BuildTime = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetBuildInfo returns build information, filling ldflags gaps from the
// module build info embedded by the Go toolchain.
func GetBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:       Version,
		GitCommit:     GitCommit,
		BuildTime:     parseISOTime(BuildTime),
		GoVersion:     runtime.Version(),
		Platform:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		EngineVersion: "unknown",
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}

	for _, dep := range bi.Deps {
		if dep.Path == EngineModule {
			info.EngineVersion = dep.Version
			if dep.Replace != nil {
				info.EngineVersion = dep.Replace.Version
			}
		}
	}

	var revision, modified string
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			if info.BuildTime.IsZero() {
				info.BuildTime = parseISOTime(setting.Value)
			}
		}
	}
	info.Dirty = modified == "true"

	if info.GitCommit == "" || info.GitCommit == "unknown" {
		if revision != "" {
			info.GitCommit = revision
		}
	}

	if info.Version == "" || info.Version == "dev" {
		switch {
		case bi.Main.Version != "" && bi.Main.Version != "(devel)":
			info.Version = bi.Main.Version
		case len(revision) >= 7:
			info.Version = "dev-" + revision[:7]
		default:
			info.Version = "dev"
		}
	}

	return info
}

// Short returns a short version string suitable for display
func (b *BuildInfo) Short() string {
	if b.GitCommit == "unknown" || len(b.GitCommit) < 7 || strings.HasPrefix(b.Version, "dev-") {
		return b.Version
	}
	return fmt.Sprintf("%s (%s)", b.Version, b.GitCommit[:7])
}

// Detailed returns a multi-line description with all build info
func (b *BuildInfo) Detailed() string {
	parts := []string{fmt.Sprintf("Version: %s", b.Version)}

	if b.GitCommit != "unknown" {
		commit := b.GitCommit
		if b.Dirty {
			commit += " (dirty)"
		}
		parts = append(parts, fmt.Sprintf("Commit: %s", commit))
	}
	if !b.BuildTime.IsZero() {
		parts = append(parts, fmt.Sprintf("Built: %s", b.BuildTime.Format(time.RFC3339)))
	}
	parts = append(parts,
		fmt.Sprintf("Go: %s", b.GoVersion),
		fmt.Sprintf("Platform: %s", b.Platform),
		fmt.Sprintf("esbuild: %s", b.EngineVersion),
	)

	return strings.Join(parts, "\n")
}

// IsRelease returns true if this is a release build (not dev)
func (b *BuildInfo) IsRelease() bool {
	return b.Version != "dev" && !strings.HasPrefix(b.Version, "dev-")
}

// parseISOTime parses an ISO 8601 time string, returns zero time on error
func parseISOTime(timeStr string) time.Time {
	if timeStr == "" || timeStr == "unknown" {
		return time.Time{}
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t
		}
	}

	return time.Time{}
}
