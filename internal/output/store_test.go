package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesParents(t *testing.T) {
	s, err := NewMem()
	require.NoError(t, err)

	name := "/tmp/blender_renders/golden_spiral.png"
	assert.False(t, s.Exists(name))
	require.NoError(t, s.Write(name, []byte("png bytes")))
	assert.True(t, s.Exists(name))
	assert.True(t, s.Exists("/tmp/blender_renders"))

	n, err := s.Size(name)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	require.NoError(t, s.Write(name, []byte("x")))
	n, err = s.Size(name)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "write replaces the file")
}

func TestAppendAndRead(t *testing.T) {
	s, err := NewMem()
	require.NoError(t, err)
	require.NoError(t, s.Append("/out/run.log", []byte("a\n")))
	require.NoError(t, s.Append("/out/run.log", []byte("b\n")))
	data, err := s.Read("/out/run.log")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestSizeErrors(t *testing.T) {
	s, err := NewMem()
	require.NoError(t, err)
	_, err = s.Size("/missing.png")
	assert.Error(t, err)

	require.NoError(t, s.MkdirAll("/dir"))
	_, err = s.Size("/dir")
	assert.Error(t, err)
}

func TestFsPath(t *testing.T) {
	p, err := fsPath("/tmp/a/../b.png")
	require.NoError(t, err)
	assert.Equal(t, "tmp/b.png", p)
	p, err = fsPath("/")
	require.NoError(t, err)
	assert.Equal(t, ".", p)
}
