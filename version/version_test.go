package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	info := Info{CommitHash: "dev", BuildTime: "unknown", Version: "dev"}
	fillFromBuildInfo(&info, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
		},
	})

	assert.Equal(t, "v0.3.1", info.Version)
	assert.Equal(t, "0123456", info.Short())
	assert.Equal(t, "compdoc v0.3.1 (commit 0123456, built 2026-10-01T12:00:00Z)", info.String())
}

func TestFillFromBuildInfo_LdflagsWin(t *testing.T) {
	info := Info{CommitHash: "abc1234", BuildTime: "now", Version: "v1.0.0"}
	fillFromBuildInfo(&info, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fff"}},
	})

	assert.Equal(t, "v1.0.0", info.Version)
	assert.Equal(t, "abc1234", info.CommitHash)
	assert.Equal(t, "now", info.BuildTime)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}
