package commands

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestExecute(t *testing.T) {
	r := NewRegistry("bench")
	fs := newFlags("render")
	quick := fs.Bool("quick", false, "")
	var got []string
	r.Register("render", "render a script", fs, func(args []string) error {
		got = args
		return nil
	})

	require.NoError(t, r.Execute([]string{"render", "-quick", "glass-fractal", "golden-spiral"}))
	assert.True(t, *quick)
	assert.Equal(t, []string{"glass-fractal", "golden-spiral"}, got)
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry("bench")
	boom := errors.New("boom")
	r.Register("verify", "", newFlags("verify"), func([]string) error { return boom })

	assert.ErrorIs(t, r.Execute(nil), ErrUsage)
	assert.ErrorIs(t, r.Execute([]string{"nope"}), ErrUsage)
	assert.ErrorIs(t, r.Execute([]string{"verify"}), boom)
	assert.Error(t, r.Execute([]string{"verify", "-bogus"}))
}

func TestUsage(t *testing.T) {
	r := NewRegistry("bench")
	r.Register("verify", "check the host", newFlags("verify"), nil)
	r.Register("benchmark", "run the benchmark", newFlags("benchmark"), nil)
	var buf bytes.Buffer
	r.Usage(&buf)
	assert.Equal(t, "usage: bench <command> [flags] [args]\n\ncommands:\n"+
		"  benchmark  run the benchmark\n"+
		"  verify     check the host\n", buf.String())
}
