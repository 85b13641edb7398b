package verify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/gpu"
	"fractal-bench/internal/logger"
	"fractal-bench/internal/output"
	"fractal-bench/internal/render"
	"fractal-bench/internal/render/trace"
	"fractal-bench/internal/report"
	"fractal-bench/internal/scene"
	"fractal-bench/internal/version"
)

type fakeEngine struct {
	err   error
	panic bool
}

func (f fakeEngine) Name() string         { return "fake" }
func (f fakeEngine) Device() scene.Device { return scene.DeviceGPU }

func (f fakeEngine) Render(_ context.Context, s *scene.Scene) (*render.Frame, error) {
	if f.panic {
		panic("driver crashed")
	}
	if f.err != nil {
		return nil, f.err
	}
	w, h := s.Render.Size()
	return render.NewFrame(w, h), nil
}

var testGPU = gpu.Device{Name: "Test RTX", Vendor: "test", Backend: "Vulkan", Type: gpu.TypeDiscrete}

func newEnv(t *testing.T) (Env, *bytes.Buffer) {
	t.Helper()
	store, err := output.NewMem()
	require.NoError(t, err)
	var out bytes.Buffer
	return Env{
		Log:     logger.New(&out, nil, ""),
		Styler:  report.Plain(),
		Store:   store,
		Devices: gpu.Static{List: []gpu.Device{testGPU, {Name: "llvmpipe", Type: gpu.TypeCPU}}},
		GPU:     fakeEngine{},
		CPU:     trace.New(trace.Options{Workers: 2}),
		Dir:     "/tmp",
		Build:   version.Info{Version: "1.2.0", GoVersion: "go1.25.6", Platform: "linux/amd64"},
	}, &out
}

func names(r Result) []string {
	var out []string
	for _, c := range r.Checks {
		out = append(out, c.Name)
	}
	return out
}

func failed(r Result) []string {
	var out []string
	for _, c := range r.Checks {
		if !c.Pass {
			out = append(out, c.Name)
		}
	}
	return out
}

func TestAllPass(t *testing.T) {
	env, out := newEnv(t)
	res := Run(context.Background(), env)
	assert.Equal(t, []string{
		"Version", "GPU devices found", "GPU render", "CPU render",
		"Add mesh", "Add modifier", "Material + nodes",
		"OBJ export", "Project save", "Geometry nodes", "Compositor node",
	}, names(res))
	assert.True(t, res.OK(), failed(res))
	assert.Equal(t, "Results: 11/11 passed - ALL TESTS PASSED", res.Summary())

	text := out.String()
	assert.Contains(t, text, "  [PASS] GPU devices found (Test RTX)\n")
	assert.Contains(t, text, "       Test RTX (use=false)\n")
	assert.Contains(t, text, "  [PASS] Add modifier (Subdivision)\n")
	assert.Contains(t, text, "  [PASS] Compositor node (Blur)\n")
	assert.Contains(t, text, "  [PASS] Geometry nodes (TestGeoNodes)\n")
	assert.Contains(t, text, "Results: 11/11 passed - ALL TESTS PASSED\n")
	assert.NotContains(t, text, "llvmpipe")

	for _, f := range []string{GPUImage, CPUImage, ExportFile, ProjectFile} {
		assert.True(t, env.Store.Exists("/tmp/"+f), f)
	}
	obj, err := env.Store.Read("/tmp/" + ExportFile)
	require.NoError(t, err)
	assert.Contains(t, string(obj), "o Sphere\n")
}

func TestMissingGPU(t *testing.T) {
	env, out := newEnv(t)
	env.Devices = gpu.Static{Err: gpu.ErrNoAdapter}
	env.GPU = fakeEngine{err: errors.New("no CUDA device")}
	res := Run(context.Background(), env)

	assert.Len(t, res.Checks, 11)
	assert.Equal(t, []string{"GPU detection", "GPU render"}, failed(res))
	assert.Equal(t, "Results: 9/11 passed, 2 FAILED", res.Summary())
	assert.False(t, res.OK())
	assert.Contains(t, out.String(), "  [FAIL] GPU detection (gpu: no adapter available)\n")
	assert.Contains(t, out.String(), "  [PASS] CPU render (")
}

func TestNoGPUsListed(t *testing.T) {
	env, out := newEnv(t)
	env.Devices = gpu.Static{List: []gpu.Device{{Name: "llvmpipe", Type: gpu.TypeCPU}}}
	res := Run(context.Background(), env)
	assert.Equal(t, []string{"GPU devices found"}, failed(res))
	assert.Contains(t, out.String(), "  [FAIL] GPU devices found\n")
}

func TestPanicIsRecorded(t *testing.T) {
	env, _ := newEnv(t)
	env.GPU = fakeEngine{panic: true}
	env.CPU = nil
	res := Run(context.Background(), env)
	require.Equal(t, []string{"GPU render", "CPU render"}, failed(res))
	assert.Equal(t, "driver crashed", res.Checks[2].Detail)
	assert.Equal(t, ErrNoEngine.Error(), res.Checks[3].Detail)
	assert.Equal(t, "Compositor node", res.Checks[len(res.Checks)-1].Name)
}

func TestOldVersionFails(t *testing.T) {
	env, _ := newEnv(t)
	env.Build.Version = "0.4.0"
	res := Run(context.Background(), env)
	assert.Equal(t, []string{"Version"}, failed(res))
	assert.Equal(t, "0.4.0", res.Checks[0].Detail)
}

func TestBanner(t *testing.T) {
	env, out := newEnv(t)
	Run(context.Background(), env)
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, report.Rule(), lines[0])
	assert.Equal(t, "fractal-bench 1.2.0", lines[1])
	assert.Equal(t, "Build: unknown", lines[2])
	assert.Equal(t, "Platform: linux/amd64", lines[3])
	assert.Equal(t, "Go: go1.25.6", lines[4])
}

func TestStartup(t *testing.T) {
	s := Startup()
	require.NotNil(t, s.ActiveCamera())
	assert.Equal(t, 1, s.Counts()[scene.TypeMesh])
	assert.Equal(t, 1, s.Counts()[scene.TypeLight])
}
