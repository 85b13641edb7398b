package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	for v, want := range map[string]bool{
		"1.0.0":      true,
		"1.2.3":      true,
		"v2.0.0":     true,
		"0.9.9":      false,
		"1.0.0-rc.1": false,
	} {
		ok, err := Check(v)
		require.NoError(t, err, v)
		assert.Equal(t, want, ok, v)
	}
	_, err := Check("not a version")
	assert.Error(t, err)
}

func TestCurrentVersionPasses(t *testing.T) {
	ok, err := Check(Version)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBuild(t *testing.T) {
	b := Build()
	assert.Equal(t, Version, b.Version)
	assert.Equal(t, runtime.Version(), b.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, b.Platform)
}
