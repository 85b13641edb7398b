package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	vars, err := Parse(strings.NewReader(`
# comment
BENCH_RENDER_DIR = "/data/renders"
export BENCH_DEVICE=CPU
QUOTED='a b'
=skipped
novalue
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"BENCH_RENDER_DIR": "/data/renders",
		"BENCH_DEVICE":     "CPU",
		"QUOTED":           "a b",
	}, vars)
}

func TestLoadKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FB_ENV_TEST_A=file\nFB_ENV_TEST_B=file\n"), 0o644))
	t.Setenv("FB_ENV_TEST_A", "shell")
	require.NoError(t, Load(path))
	assert.Equal(t, "shell", os.Getenv("FB_ENV_TEST_A"))
	assert.Equal(t, "file", os.Getenv("FB_ENV_TEST_B"))
	os.Unsetenv("FB_ENV_TEST_B")
}

func TestLoadMissing(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "nope")))
}
