package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
	assert.NotEmpty(t, GetGitCommit())
	assert.NotEmpty(t, GetBuildDate())
}

func TestSemver(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		wantErr   bool
		wantMinor uint64
		wantPre   string
	}{
		{name: "default dev build", version: "0.1.0-dev", wantMinor: 1, wantPre: "dev"},
		{name: "leading v", version: "v1.4.2", wantMinor: 4},
		{name: "not semver", version: "nightly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := version
			version = tt.version
			t.Cleanup(func() { version = orig })

			v, err := Semver()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.version)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMinor, v.Minor())
			assert.Equal(t, tt.wantPre, v.Prerelease())
		})
	}
}

func TestGetInfo(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "2.3.4-rc.1"
	info := GetInfo()
	assert.Equal(t, "2.3.4-rc.1", info.Version)
	assert.Equal(t, uint64(2), info.Major)
	assert.Equal(t, uint64(3), info.Minor)
	assert.Equal(t, uint64(4), info.Patch)
	assert.Equal(t, "rc.1", info.Prerelease)
	assert.NotEmpty(t, info.GoVersion)

	version = "dev"
	info = GetInfo()
	assert.Equal(t, "dev", info.Version)
	assert.Zero(t, info.Major)
}

func TestInfoFor(t *testing.T) {
	info := InfoFor("v0.9.1")
	assert.Equal(t, "v0.9.1", info.Version)
	assert.Equal(t, uint64(9), info.Minor)
	assert.Equal(t, uint64(1), info.Patch)
	assert.Equal(t, GetGitCommit(), info.GitCommit)
}
