package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	oldVersion, oldCommit, oldBuild := Version, CommitHash, BuildTime
	t.Cleanup(func() { Version, CommitHash, BuildTime = oldVersion, oldCommit, oldBuild })

	Version, CommitHash, BuildTime = "1.2.3", "abc123", "2026-01-01"
	assert.Equal(t, "reachd 1.2.3 (commit abc123, built 2026-01-01)", String())
}
