// Package bench runs the Menger sponge benchmark: one scene rendered in three
// passes of growing resolution and sample count, then a results table and a
// saved project file.
package bench

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/jinzhu/copier"

	"fractal-bench/internal/debug"
	"fractal-bench/internal/logger"
	"fractal-bench/internal/output"
	"fractal-bench/internal/render"
	"fractal-bench/internal/report"
	"fractal-bench/internal/scene"
	"fractal-bench/internal/scenes"
)

// SceneFile is the project file saved next to the renders.
const SceneFile = "benchmark_scene.yaml"

// Pass is one benchmark render.
type Pass struct {
	Label   string
	Title   string
	File    string
	Width   int
	Height  int
	Samples int
}

// Passes are the three benchmark renders in order.
var Passes = []Pass{
	{Label: "Preview", Title: "Preview render", File: "benchmark_preview.png", Width: 480, Height: 270, Samples: 16},
	{Label: "Medium", Title: "Medium render", File: "benchmark_720p.png", Width: 1280, Height: 720, Samples: 64},
	{Label: "Full", Title: "Full render", File: "benchmark_1080p.png", Width: 1920, Height: 1080, Samples: 128},
}

// Quick divisors for smoke runs.
const (
	quickSize    = 4
	quickSamples = 8
)

// quick returns p scaled down for a smoke run.
func (p Pass) quick() Pass {
	p.Width = max(p.Width/quickSize, 1)
	p.Height = max(p.Height/quickSize, 1)
	p.Samples = max(p.Samples/quickSamples, 1)
	return p
}

// Env is what a benchmark run needs from its caller.
type Env struct {
	Log    *logger.Logger
	Store  *output.Store
	Engine render.Engine
	// Dir is the benchmark output directory.
	Dir string
	// Version and GPU fill the banner and the results table.
	Version string
	GPU     string
	Quick   bool
}

// PassResult is the outcome of one pass.
type PassResult struct {
	Pass   Pass
	Result render.Result
}

// Report is the outcome of a benchmark run.
type Report struct {
	Cubes     int
	Setup     time.Duration
	Passes    []PassResult
	ScenePath string
	PeakHeap  uint64
}

// Run builds the benchmark scene and renders every pass with env.Engine. It
// stops at the first failing pass.
func Run(ctx context.Context, env Env) (*Report, error) {
	log := env.Log
	if err := env.Store.MkdirAll(env.Dir); err != nil {
		return nil, err
	}
	meter := debug.NewMeter(0)
	meter.Start()
	defer meter.Stop()

	log.Log(report.Rule())
	log.Log("FRACTAL GPU BENCHMARK")
	log.Logf("fractal-bench %s", env.Version)
	log.Log(report.Rule())

	log.Log("")
	log.Log("--- Scene Setup ---")
	start := time.Now()
	s := scene.New()
	s.Clear()
	log.Logf("Building Menger sponge (depth %d)...", scenes.SpongeDepth)
	cubes, err := scenes.BuildBenchmark(s)
	if err != nil {
		return nil, fmt.Errorf("bench: setup: %w", err)
	}
	log.Logf("  Created %d cubes in %s", cubes, report.Seconds(time.Since(start)))
	rep := &Report{Cubes: cubes, Setup: time.Since(start)}
	log.Logf("  Scene setup: %s (%d fractal cubes)", report.Seconds(rep.Setup), cubes)

	log.Log("")
	log.Log("--- Render Settings ---")
	base := s.Render
	for i, p := range Passes {
		if env.Quick {
			p = p.quick()
		}
		log.Log("")
		log.Logf("  [%d/%d] %s (%dx%d, %d samples)...", i+1, len(Passes), p.Title, p.Width, p.Height, p.Samples)
		if err := configure(s, base, p, env.Dir); err != nil {
			return nil, err
		}
		res, err := render.Still(ctx, env.Engine, s, env.Store)
		if err != nil {
			return nil, fmt.Errorf("bench: %s: %w", p.Label, err)
		}
		log.Logf("        Done in %s", report.Seconds(res.Elapsed))
		rep.Passes = append(rep.Passes, PassResult{Pass: p, Result: res})
	}

	rep.ScenePath = path.Join(env.Dir, SceneFile)
	data, err := s.Marshal()
	if err != nil {
		return nil, fmt.Errorf("bench: %w", err)
	}
	if err := env.Store.Write(rep.ScenePath, data); err != nil {
		return nil, fmt.Errorf("bench: save scene: %w", err)
	}
	rep.PeakHeap = meter.Stop()

	results(env, rep)
	return rep, nil
}

// configure replaces the scene's render settings with a copy of base set up for p.
func configure(s *scene.Scene, base scene.RenderSettings, p Pass, dir string) error {
	var rs scene.RenderSettings
	if err := copier.CopyWithOption(&rs, &base, copier.Option{DeepCopy: true}); err != nil {
		return fmt.Errorf("bench: copy render settings: %w", err)
	}
	scenes.ConfigureBenchmark(&rs, p.Samples, p.Width, p.Height)
	rs.FilePath = path.Join(dir, p.File)
	s.Render = rs
	return nil
}

// Line formats a results row with the pass label, resolution and samples padded
// into aligned columns.
func Line(p Pass, elapsed time.Duration) string {
	res := fmt.Sprintf("%dx%d,", p.Width, p.Height)
	width := max(12-len(res), 0)
	return fmt.Sprintf("  %-9s(%s%*s smp): %6.1fs", p.Label, res, width, strconv.Itoa(p.Samples), elapsed.Seconds())
}

func results(env Env, rep *Report) {
	log := env.Log
	log.Log("")
	log.Log(report.Rule())
	log.Log("BENCHMARK RESULTS")
	log.Log(report.Rule())
	log.Logf("  Scene: Menger sponge (%d glass/metal cubes)", rep.Cubes)
	log.Log("  Features: Glass BSDF, Metal BSDF, Emission, Volumetric scatter")
	engine := env.Engine.Name()
	if len(rep.Passes) > 0 {
		engine = rep.Passes[0].Result.Engine
	}
	log.Logf("  GPU: %s (via %s)", env.GPU, engine)
	log.Log("")
	for _, p := range rep.Passes {
		log.Log(Line(p.Pass, p.Result.Elapsed))
	}
	log.Log("")
	for _, p := range rep.Passes {
		if !env.Store.Exists(p.Result.Path) {
			continue
		}
		size, err := env.Store.Size(p.Result.Path)
		if err != nil {
			continue
		}
		log.Logf("  %s: %s bytes", p.Pass.File, report.Bytes(size))
	}
	log.Logf("  %s", debug.Sample().MemLine())
	log.Logf("  %s", debug.PeakLine(rep.PeakHeap))
	log.Log("")
	log.Logf("  Scene saved: %s", rep.ScenePath)
	log.Log(report.Rule())
}
