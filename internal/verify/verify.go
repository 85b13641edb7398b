// Package verify smoke-tests the host capabilities the render scripts rely on:
// version, GPU devices, GPU and CPU renders, the scene API, file output, geometry
// nodes and the compositor. Every check is independent; a failing or panicking
// check is recorded and the rest still run.
package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"strings"

	"fractal-bench/internal/compositor"
	"fractal-bench/internal/geom"
	"fractal-bench/internal/gpu"
	"fractal-bench/internal/logger"
	"fractal-bench/internal/material"
	"fractal-bench/internal/output"
	"fractal-bench/internal/render"
	"fractal-bench/internal/report"
	"fractal-bench/internal/scene"
	"fractal-bench/internal/version"
)

// Output files written into Env.Dir.
const (
	GPUImage    = "fractal_bench_test_gpu.png"
	CPUImage    = "fractal_bench_test_cpu.png"
	ExportFile  = "fractal_bench_test_export.obj"
	ProjectFile = "fractal_bench_test.yaml"
)

// Smoke render size.
const (
	renderSize    = 64
	renderSamples = 4
)

// ErrNoEngine is reported by a render check that has no engine to run.
var ErrNoEngine = errors.New("verify: no render engine")

// Env is what a verification run needs.
type Env struct {
	Log     *logger.Logger
	Styler  report.Styler
	Store   *output.Store
	Devices gpu.Lister
	GPU     render.Engine
	CPU     render.Engine
	// Dir receives the smoke-test files.
	Dir   string
	Build version.Info
}

// Check is one recorded result.
type Check struct {
	Name   string
	Pass   bool
	Detail string
}

// Result is every check of a run, in order.
type Result struct {
	Checks []Check
}

// Passed counts passing checks.
func (r Result) Passed() int {
	n := 0
	for _, c := range r.Checks {
		if c.Pass {
			n++
		}
	}
	return n
}

// Failed counts failing checks.
func (r Result) Failed() int { return len(r.Checks) - r.Passed() }

// OK reports whether every check passed.
func (r Result) OK() bool { return r.Failed() == 0 }

// Summary is the results line.
func (r Result) Summary() string {
	line := fmt.Sprintf("Results: %d/%d passed", r.Passed(), len(r.Checks))
	if f := r.Failed(); f > 0 {
		return line + fmt.Sprintf(", %d FAILED", f)
	}
	return line + " - ALL TESTS PASSED"
}

type run struct {
	ctx context.Context
	env Env
	res Result
	s   *scene.Scene
}

// Run executes every check in order and prints one line per check and a summary.
func Run(ctx context.Context, env Env) Result {
	r := &run{ctx: ctx, env: env, s: Startup()}
	log := env.Log

	b := env.Build
	log.Log(report.Rule())
	log.Logf("fractal-bench %s", b.Version)
	built := strings.TrimSpace(b.Time + " " + b.Revision)
	if built == "" {
		built = "unknown"
	}
	log.Logf("Build: %s", built)
	log.Logf("Platform: %s", b.Platform)
	log.Logf("Go: %s", b.GoVersion)
	log.Log(report.Rule())

	r.section("Version")
	r.try("Version", r.checkVersion)

	r.section("GPU Detection")
	r.try("GPU detection", r.checkDevices)

	r.section(fmt.Sprintf("GPU Render (%dx%d, %d samples)", renderSize, renderSize, renderSamples))
	r.try("GPU render", func() error { return r.checkRender("GPU render", env.GPU, scene.DeviceGPU, GPUImage) })

	r.section(fmt.Sprintf("CPU Render (%dx%d, %d samples)", renderSize, renderSize, renderSamples))
	r.try("CPU render", func() error { return r.checkRender("CPU render", env.CPU, scene.DeviceCPU, CPUImage) })

	r.section("Scene API")
	r.try("Scene API", r.checkAPI)

	r.section("File I/O")
	r.try("OBJ export", r.checkExport)
	r.try("Project save", r.checkSave)

	r.section("Geometry Nodes")
	r.try("Geometry nodes", r.checkGeometryNodes)

	r.section("Compositor")
	r.try("Compositor node", r.checkCompositor)

	log.Log("")
	log.Log(report.Rule())
	log.Log(r.res.Summary())
	log.Log(report.Rule())
	return r.res
}

// Startup returns the default scene a fresh session opens with: a 2 m cube, a
// point light and a camera looking at the cube.
func Startup() *scene.Scene {
	s := scene.New()
	cube := s.AddCube(2, geom.Vec3{})
	s.AddMaterial(cube, material.New("Material"))
	light := s.AddLight(scene.LightPoint, geom.V(4.08, 1.01, 5.9))
	light.Light.Energy = 1000
	cam := s.AddCamera(geom.V(7.36, -6.93, 4.96))
	cam.Rotation = geom.Euler{X: geom.Radians(63.6), Z: geom.Radians(46.7)}
	s.World = material.NewWorld("World")
	return s
}

func (r *run) section(title string) {
	r.env.Log.Log("")
	r.env.Log.Logf("--- %s ---", title)
}

// test records one check and prints its line.
func (r *run) test(name string, ok bool, detail string) bool {
	r.res.Checks = append(r.res.Checks, Check{Name: name, Pass: ok, Detail: detail})
	suffix := ""
	if detail != "" {
		suffix = " (" + detail + ")"
	}
	r.env.Log.Logf("  %s %s%s", r.env.Styler.Status(ok), name, suffix)
	return ok
}

// try runs fn and records an error or panic from it as a failure of name.
func (r *run) try(name string, fn func() error) {
	defer func() {
		if p := recover(); p != nil {
			r.test(name, false, fmt.Sprint(p))
		}
	}()
	if err := fn(); err != nil {
		r.test(name, false, err.Error())
	}
}

func (r *run) checkVersion() error {
	ok, err := version.Check(r.env.Build.Version)
	if err != nil {
		return err
	}
	r.test("Version", ok, r.env.Build.Version)
	return nil
}

func (r *run) checkDevices() error {
	if r.env.Devices == nil {
		return gpu.ErrNoLibrary
	}
	devs, err := r.env.Devices.Devices(r.ctx)
	if err != nil {
		return err
	}
	gpus := gpu.GPUs(devs)
	r.test("GPU devices found", len(gpus) > 0, strings.Join(gpu.Names(gpus), ", "))
	for _, d := range gpus {
		r.env.Log.Logf("       %s (use=%t)", d.Name, d.Use)
	}
	return nil
}

func (r *run) checkRender(name string, e render.Engine, dev scene.Device, file string) error {
	if e == nil {
		return ErrNoEngine
	}
	rs := &r.s.Render
	rs.ResolutionX, rs.ResolutionY, rs.ResolutionPercentage = renderSize, renderSize, 100
	rs.Engine = "CYCLES"
	rs.Device = dev
	rs.Samples = renderSamples
	rs.FilePath = path.Join(r.env.Dir, file)
	if _, err := render.Still(r.ctx, e, r.s, r.env.Store); err != nil {
		return err
	}
	var size int64
	exists := r.env.Store.Exists(rs.FilePath)
	if exists {
		var err error
		if size, err = r.env.Store.Size(rs.FilePath); err != nil {
			return err
		}
	}
	r.test(name, exists && size > 0, fmt.Sprintf("%d bytes", size))
	return nil
}

func (r *run) checkAPI() error {
	obj := r.s.AddUVSphere(1, 0, 0, geom.V(0, 0, 3))
	r.test("Add mesh", obj != nil, obj.Name)

	mod, err := obj.AddModifier(scene.ModifierSubsurf)
	if err != nil {
		return err
	}
	r.test("Add modifier", len(obj.Modifiers) > 0, mod.Name)

	mat := material.New("TestMat")
	r.s.AddMaterial(obj, mat)
	r.test("Material + nodes", mat.UseNodes && mat.Output() != nil, mat.Name)
	return nil
}

func (r *run) checkExport() error {
	var buf bytes.Buffer
	if err := r.s.ExportOBJ(&buf); err != nil {
		return err
	}
	return r.writeCheck("OBJ export", ExportFile, buf.Bytes())
}

func (r *run) checkSave() error {
	data, err := r.s.Marshal()
	if err != nil {
		return err
	}
	return r.writeCheck("Project save", ProjectFile, data)
}

func (r *run) writeCheck(name, file string, data []byte) error {
	p := path.Join(r.env.Dir, file)
	if err := r.env.Store.Write(p, data); err != nil {
		return err
	}
	size, err := r.env.Store.Size(p)
	if err != nil {
		return err
	}
	r.test(name, size > 0, fmt.Sprintf("%d bytes", size))
	return nil
}

func (r *run) checkGeometryNodes() error {
	cube := r.s.AddCube(2, geom.V(3, 0, 0))
	mod, err := cube.AddModifier(scene.ModifierNodes)
	if err != nil {
		return err
	}
	group, err := r.s.NewNodeGroup("TestGeoNodes", scene.GeometryNodeTree)
	if err != nil {
		return err
	}
	mod.NodeGroup = group.Name
	if _, _, err := r.s.Evaluated(cube); err != nil {
		return err
	}
	r.test("Geometry nodes", r.s.NodeGroup(mod.NodeGroup) != nil, group.Name)
	return nil
}

func (r *run) checkCompositor() error {
	tree, err := r.s.NewNodeGroup("TestCompositor", scene.CompositorNodeTree)
	if err != nil {
		return err
	}
	blur, err := tree.AddNode(scene.NodeBlur)
	if err != nil {
		return err
	}
	if _, err := compositor.Apply(image.NewRGBA(image.Rect(0, 0, 8, 8)), tree); err != nil {
		return err
	}
	r.test("Compositor node", blur != nil, blur.Name)
	return nil
}
