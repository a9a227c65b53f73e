package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildMetadata(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime
	})
	Version, GitCommit, BuildTime = version, commit, buildTime
}

func TestCurrent(t *testing.T) {
	withBuildMetadata(t, "2.0.0", "fedcba987", "2026-02-20T15:45:30Z")

	info := Current()

	assert.Equal(t, "2.0.0", info.Version)
	assert.Equal(t, "fedcba987", info.Commit)
	assert.Equal(t, "2026-02-20T15:45:30Z", info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestString(t *testing.T) {
	withBuildMetadata(t, "1.2.3", "abc123def", "2026-01-15T10:30:00Z")

	result := String()

	for _, want := range []string{"kstar", "1.2.3", "abc123def", "2026-01-15T10:30:00Z", runtime.Version()} {
		assert.True(t, strings.Contains(result, want),
			"String() should contain %q, got: %s", want, result)
	}
}

func TestDefaultValues(t *testing.T) {
	// A from-source build without ldflags still identifies itself.
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, GitCommit)
	assert.NotEmpty(t, BuildTime)
}
