package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenesCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-config", t.TempDir() + "/missing.json", "scenes"}, &out, &errOut)
	assert.Equal(t, 0, code, errOut.String())
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "crystal-cave"), lines[0])
	assert.Contains(t, lines[0], "crystal_cave.png")
}

func TestUsageErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"-config", t.TempDir() + "/x.json"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "usage: bench")

	errOut.Reset()
	assert.Equal(t, 2, run([]string{"-config", t.TempDir() + "/x.json", "render"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "render needs a script name")

	errOut.Reset()
	assert.Equal(t, 1, run([]string{"-config", t.TempDir() + "/x.json", "render", "nope"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "unknown script")
}
