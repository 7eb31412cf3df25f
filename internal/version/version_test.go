package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func stubVars(t *testing.T, v, commit, built string) {
	t.Helper()
	ov, oc, ob := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = ov, oc, ob })
}

func TestGetBuildInfoFromLdflags(t *testing.T) {
	stubVars(t, "v1.2.3", "abcdef1234567", "2026-01-02T03:04:05Z")
	stubBuildInfo(t, &debug.BuildInfo{
		Deps: []*debug.Module{{Path: EngineModule, Version: "v0.27.2"}},
	})

	info := GetBuildInfo()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abcdef1234567", info.GitCommit)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime)
	assert.Equal(t, "v0.27.2", info.EngineVersion)
	assert.Equal(t, "v1.2.3 (abcdef1)", info.Short())
	assert.True(t, info.IsRelease())
}

func TestGetBuildInfoFromVCS(t *testing.T) {
	stubVars(t, "dev", "unknown", "unknown")
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-05-06T07:08:09Z"},
		},
	})

	info := GetBuildInfo()
	assert.Equal(t, "dev-0123456", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.True(t, info.Dirty)
	assert.False(t, info.BuildTime.IsZero())
	assert.Equal(t, "unknown", info.EngineVersion)
	assert.Equal(t, "dev-0123456", info.Short())
	assert.False(t, info.IsRelease())
	assert.Contains(t, info.Detailed(), "Commit: 0123456789abcdef (dirty)")
}

func TestGetBuildInfoWithoutModuleInfo(t *testing.T) {
	stubVars(t, "dev", "unknown", "unknown")
	stubBuildInfo(t, nil)

	info := GetBuildInfo()
	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "dev", info.Short())
	assert.NotContains(t, info.Detailed(), "Commit:")
	assert.Contains(t, info.Detailed(), "esbuild: unknown")
}

func TestParseISOTime(t *testing.T) {
	assert.True(t, parseISOTime("unknown").IsZero())
	assert.True(t, parseISOTime("garbage").IsZero())
	assert.False(t, parseISOTime("2026-01-02 03:04:05").IsZero())
	assert.False(t, parseISOTime("2026-01-02T03:04:05").IsZero())
}
