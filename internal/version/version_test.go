package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	v, c, b := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = v, c, b })

	Version, GitCommit, BuildTime = "v1.0.0", "unknown", "unknown"
	assert.Equal(t, "v1.0.0", String())

	GitCommit, BuildTime = "abc123", "2026-01-02"
	assert.Equal(t, "v1.0.0 (commit abc123, built 2026-01-02)", String())
}

func TestBuildInfoInitialized(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}
