// Package logger prints report lines and keeps a timestamped copy of each, in
// memory and appended to the run log.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"fractal-bench/internal/output"
)

// LogFile is the run log name inside an output directory.
const LogFile = "run.log"

// Logger writes lines verbatim to out and stamped to the run log.
type Logger struct {
	mu    sync.Mutex
	lines []string
	out   io.Writer
	store *output.Store
	path  string
	now   func() time.Time
}

// New returns a logger printing to out. When store is non-nil every line is also
// appended to path in it.
func New(out io.Writer, store *output.Store, path string) *Logger {
	return &Logger{out: out, store: store, path: path, now: time.Now}
}

// Log prints line and records it with a [timestamp] prefix using computer time.
// Run log write failures are reported through slog, never to the caller.
func (l *Logger) Log(line string) {
	stamped := "[" + l.now().Format("2006-01-02 15:04:05") + "] " + line

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, stamped)
	if l.out != nil {
		fmt.Fprintln(l.out, line)
	}
	if l.store != nil && l.path != "" {
		if err := l.store.Append(l.path, []byte(stamped+"\n")); err != nil {
			slog.Warn("logger: run log append failed", "path", l.path, "err", err)
		}
	}
}

// Logf formats and logs a line.
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
