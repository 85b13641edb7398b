package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fractal-bench/internal/output"
	"fractal-bench/internal/scene"
)

// Engine renders a scene into a frame at the scene's output resolution.
type Engine interface {
	Name() string
	Device() scene.Device
	Render(ctx context.Context, s *scene.Scene) (*Frame, error)
}

// Result is what a still render reports back.
type Result struct {
	Path    string
	Engine  string
	Width   int
	Height  int
	Elapsed time.Duration
	Bytes   int64
}

// ErrNoOutputPath is returned by Still when the scene has no output file path.
var ErrNoOutputPath = errors.New("render: no output file path")

// Still renders s with e, writes the image to the scene's output path and reports
// elapsed wall time and the written file size. Elapsed covers render and write.
func Still(ctx context.Context, e Engine, s *scene.Scene, store *output.Store) (Result, error) {
	rs := s.Render
	if rs.FilePath == "" {
		return Result{}, ErrNoOutputPath
	}
	var comp *scene.NodeGroup
	if rs.Compositor != "" {
		if comp = s.NodeGroup(rs.Compositor); comp == nil {
			return Result{}, fmt.Errorf("render: no compositor node group %q", rs.Compositor)
		}
	}

	start := time.Now()
	f, err := e.Render(ctx, s)
	if err != nil {
		return Result{}, fmt.Errorf("render: %s: %w", e.Name(), err)
	}
	data, err := Encode(f, rs, comp)
	if err != nil {
		return Result{}, err
	}
	if err := store.Write(rs.FilePath, data); err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}
	elapsed := time.Since(start)

	size, err := store.Size(rs.FilePath)
	if err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}
	name := f.Engine
	if name == "" {
		name = e.Name()
	}
	res := Result{
		Path:    rs.FilePath,
		Engine:  name,
		Width:   f.Width,
		Height:  f.Height,
		Elapsed: elapsed,
		Bytes:   size,
	}
	slog.Debug("render finished", "engine", res.Engine, "path", res.Path,
		"size", fmt.Sprintf("%dx%d", res.Width, res.Height), "elapsed", res.Elapsed, "bytes", res.Bytes)
	return res, nil
}

// Fallback renders with Primary; if it fails, renders with Secondary. Cancellation
// is not retried.
type Fallback struct {
	Primary   Engine
	Secondary Engine
}

// Name returns the primary engine's name.
func (f *Fallback) Name() string { return f.Primary.Name() }

// Device returns the primary engine's device.
func (f *Fallback) Device() scene.Device { return f.Primary.Device() }

// Render calls Primary.Render; on an error other than cancellation, calls Secondary.Render.
func (f *Fallback) Render(ctx context.Context, s *scene.Scene) (*Frame, error) {
	fr, err := f.Primary.Render(ctx, s)
	if err == nil || f.Secondary == nil || ctx.Err() != nil {
		if fr != nil && fr.Engine == "" {
			fr.Engine = f.Primary.Name()
		}
		return fr, err
	}
	slog.Warn("render engine failed, falling back", "engine", f.Primary.Name(),
		"fallback", f.Secondary.Name(), "err", err)
	fr, err = f.Secondary.Render(ctx, s)
	if fr != nil && fr.Engine == "" {
		fr.Engine = f.Secondary.Name()
	}
	return fr, err
}
