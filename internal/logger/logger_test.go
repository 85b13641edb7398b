package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/output"
)

func TestLogPrintsAndRecords(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	var buf bytes.Buffer
	l := New(&buf, store, "/out/run.log")
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Log("first")
	l.Logf("Done in %.1fs", 1.25)

	assert.Equal(t, "first\nDone in 1.2s\n", buf.String())
	assert.Equal(t, []string{
		"[2026-01-02 03:04:05] first",
		"[2026-01-02 03:04:05] Done in 1.2s",
	}, l.Lines())

	data, err := store.Read("/out/run.log")
	require.NoError(t, err)
	assert.Equal(t, "[2026-01-02 03:04:05] first\n[2026-01-02 03:04:05] Done in 1.2s\n", string(data))
}

func TestLogWithoutStore(t *testing.T) {
	l := New(nil, nil, "")
	l.Log("quiet")
	assert.Len(t, l.Lines(), 1)
}
