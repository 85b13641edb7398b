// Package scenes is the set of render scripts. Each script clears the scene, builds
// its geometry, materials, lights and camera, sets the render settings, renders one
// still and reports the elapsed time and the written byte size.
package scenes

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/logger"
	"fractal-bench/internal/output"
	"fractal-bench/internal/render"
	"fractal-bench/internal/report"
	"fractal-bench/internal/scene"
)

// Env is what a script needs from its caller.
type Env struct {
	Log    *logger.Logger
	Store  *output.Store
	Engine render.Engine
	// Dir is the render output directory.
	Dir string
	// Adjust, when set, edits the render settings after the script has set them.
	Adjust func(*scene.RenderSettings)
}

// Script is one render script.
type Script struct {
	Name   string
	Title  string
	Output string
	// Note follows the sample count on the render line.
	Note string
	// Build fills a cleared scene and returns what the "Created" line reports.
	Build func(s *scene.Scene) (string, error)
}

// ErrUnknown is returned by Lookup for a name no script has.
var ErrUnknown = errors.New("scenes: unknown script")

var registry = map[string]*Script{}

func register(sc *Script) *Script {
	registry[sc.Name] = sc
	return sc
}

// Names returns the script names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the script called name.
func Lookup(name string) (*Script, error) {
	sc, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknown, name, Names())
	}
	return sc, nil
}

// Run executes sc in a fresh scene and renders it to Dir/Output.
func Run(ctx context.Context, sc *Script, env Env) (render.Result, error) {
	log := env.Log
	log.Log(report.Rule())
	log.Log(sc.Title)
	log.Log(report.Rule())

	if err := env.Store.MkdirAll(env.Dir); err != nil {
		return render.Result{}, err
	}

	s := scene.New()
	s.Clear()
	start := time.Now()
	created, err := sc.Build(s)
	if err != nil {
		return render.Result{}, fmt.Errorf("scenes: %s: %w", sc.Name, err)
	}
	log.Logf("Created %s in %s", created, report.Seconds(time.Since(start)))

	s.Render.FilePath = path.Join(env.Dir, sc.Output)
	if env.Adjust != nil {
		env.Adjust(&s.Render)
	}
	w, h := s.Render.Size()
	log.Logf("Rendering %dx%d @ %d samples%s...", w, h, s.Render.Samples, sc.Note)
	res, err := render.Still(ctx, env.Engine, s, env.Store)
	if err != nil {
		return render.Result{}, fmt.Errorf("scenes: %s: %w", sc.Name, err)
	}
	log.Logf("Done in %s (%s bytes)", report.Seconds(res.Elapsed), report.Bytes(res.Bytes))
	log.Logf("Output: %s", res.Path)
	return res, nil
}

// gpuStill sets the settings every script shares: path-traced, GPU, denoised,
// 1280x720 at full percentage, opaque film and a 16-bit PNG.
func gpuStill(rs *scene.RenderSettings, samples int) {
	rs.Engine = "CYCLES"
	rs.Device = scene.DeviceGPU
	rs.Samples = samples
	rs.Denoise = true
	rs.ResolutionX = 1280
	rs.ResolutionY = 720
	rs.ResolutionPercentage = 100
	rs.FilmTransparent = false
	rs.FileFormat = "PNG"
	rs.ColorDepth = 16
}

func areaLight(s *scene.Scene, loc geom.Vec3, color geom.RGB, energy, size float64) *scene.Object {
	o := s.AddLight(scene.LightArea, loc)
	o.Light.Color = color
	o.Light.Energy = energy
	o.Light.Size = size
	return o
}

func pointLight(s *scene.Scene, loc geom.Vec3, color geom.RGB, energy, radius float64) *scene.Object {
	o := s.AddLight(scene.LightPoint, loc)
	o.Light.Color = color
	o.Light.Energy = energy
	o.Light.ShadowSoftSize = radius
	return o
}

// trackedCamera adds the active camera at loc aimed at a new empty named target.
func trackedCamera(s *scene.Scene, loc geom.Vec3, target string, at geom.Vec3) (cam, empty *scene.Object) {
	cam = s.AddCamera(loc)
	s.Camera = cam.Name
	empty = s.AddEmpty(target, at)
	cam.SetTrackTo(empty)
	return cam, empty
}

func rgb(r, g, b float64) geom.RGB { return geom.RGB{R: r, G: g, B: b} }
