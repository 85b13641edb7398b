// Package trace is the CPU render engine: a tile-parallel path tracer over a BVH of
// triangles and analytic spheres, with next-event estimation for area and point
// lights, thin-lens depth of field, a homogeneous world volume and per-lobe bounce
// limits. Sampling is seeded per tile, so a scene renders identically regardless of
// worker count or scheduling.
package trace

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/render"
	"fractal-bench/internal/scene"
)

// Name is the engine name reported in results.
const Name = "trace"

// DefaultTileSize is the edge length of a render tile in pixels.
const DefaultTileSize = 32

// Options configures the tracer. Zero values use the defaults.
type Options struct {
	// Workers is the number of tiles rendered concurrently; 0 uses GOMAXPROCS.
	Workers  int
	TileSize int
}

// Engine is the CPU path tracer.
type Engine struct {
	opts Options
}

// New returns a tracer with opts.
func New(opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultTileSize
	}
	return &Engine{opts: opts}
}

// Name returns "trace".
func (e *Engine) Name() string { return Name }

// Device returns the CPU device.
func (e *Engine) Device() scene.Device { return scene.DeviceCPU }

type tile struct {
	index          int
	x0, y0, x1, y1 int
}

func tiles(w, h, size int) []tile {
	var out []tile
	for y := 0; y < h; y += size {
		for x := 0; x < w; x += size {
			out = append(out, tile{
				index: len(out),
				x0:    x, y0: y,
				x1: min(x+size, w), y1: min(y+size, h),
			})
		}
	}
	return out
}

// tileSeed mixes the render seed with the tile index (splitmix64 finalizer).
func tileSeed(seed int64, index int) int64 {
	z := uint64(seed) + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// Render traces s at its output resolution. It stops early with ctx's error when
// ctx is cancelled.
func (e *Engine) Render(ctx context.Context, s *scene.Scene) (*render.Frame, error) {
	w, h := s.Render.Size()
	view, err := render.NewView(s, w, h)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	start := time.Now()
	wd, err := compile(s)
	if err != nil {
		return nil, err
	}
	slog.Debug("trace: scene compiled", "prims", wd.prims, "lights", len(wd.lights),
		"elapsed", time.Since(start))

	spp := max(s.Render.Samples, 1)
	frame := render.NewFrame(w, h)
	frame.Engine = Name
	var guide *aovs
	if s.Render.Denoise {
		guide = newAOVs(w, h)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for _, t := range tiles(w, h, e.opts.TileSize) {
		g.Go(func() error {
			return wd.renderTile(ctx, t, view, w, h, spp, tileSeed(s.Render.Seed, t.index), frame, guide)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	if guide != nil {
		denoise(frame, guide)
	}
	slog.Debug("trace: frame done", "size", fmt.Sprintf("%dx%d", w, h), "spp", spp,
		"elapsed", time.Since(start))
	return frame, nil
}

func (wd *world) renderTile(ctx context.Context, t tile, v render.View, w, h, spp int, seed int64, f *render.Frame, guide *aovs) error {
	rng := rand.New(rand.NewSource(seed))
	inv := 1 / float64(spp)
	for y := t.y0; y < t.y1; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := t.x0; x < t.x1; x++ {
			var sum, albedo geom.RGB
			var normal geom.Vec3
			for i := 0; i < spp; i++ {
				sx := 2*(float64(x)+rng.Float64())/float64(w) - 1
				sy := 1 - 2*(float64(y)+rng.Float64())/float64(h)
				lx, ly := concentricDisk(rng)
				o, d := v.LensRay(sx, sy, lx, ly)
				c, first := wd.radiance(ray{o: o, d: d}, rng)
				sum = sum.Add(c)
				if first.ok {
					albedo = albedo.Add(first.albedo)
					normal = normal.Add(first.normal)
				}
			}
			f.Set(x, y, sum.Scale(inv))
			if guide != nil {
				guide.set(x, y, albedo.Scale(inv), normal.Norm())
			}
		}
	}
	return nil
}
