// Package config holds run preferences: where outputs go and which device renders.
// Every setting has a literal default; config/bench.json and BENCH_* environment
// variables may override them.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hack-pad/hackpadfs"

	"fractal-bench/internal/output"
	"fractal-bench/internal/scene"
)

// Path is the preferences file, relative to the process working directory.
const Path = "config/bench.json"

// Prefs are the run preferences. Zero Workers means one per CPU.
type Prefs struct {
	OutputDir   string       `json:"output_dir"`
	RenderDir   string       `json:"render_dir"`
	TestDir     string       `json:"test_dir"`
	Device      scene.Device `json:"device"`
	Workers     int          `json:"workers,omitempty"`
	Supersample int          `json:"supersample,omitempty"`
}

// Default returns the fixed output locations and GPU rendering.
func Default() Prefs {
	return Prefs{
		OutputDir:   "/tmp/blender_benchmark",
		RenderDir:   "/tmp/blender_renders",
		TestDir:     "/tmp",
		Device:      scene.DeviceGPU,
		Supersample: 2,
	}
}

// Load reads preferences from path in store. A missing file yields Default() and no
// error; an invalid one yields Default() and the decode error. Fields absent from
// the file keep their defaults.
func Load(store *output.Store, path string) (Prefs, error) {
	p := Default()
	data, err := store.Read(path)
	if err != nil {
		if errors.Is(err, hackpadfs.ErrNotExist) {
			return p, nil
		}
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return p.normalize(), nil
}

// Save writes preferences to path, creating its directory.
func Save(store *output.Store, path string, p Prefs) error {
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return store.Write(path, data)
}

// Environment variables read by WithEnv.
const (
	EnvOutputDir = "BENCH_OUTPUT_DIR"
	EnvRenderDir = "BENCH_RENDER_DIR"
	EnvTestDir   = "BENCH_TEST_DIR"
	EnvDevice    = "BENCH_DEVICE"
	EnvWorkers   = "BENCH_WORKERS"
)

// WithEnv returns p with any set BENCH_* variables applied. Unparsable values are
// logged and ignored.
func (p Prefs) WithEnv(getenv func(string) string) Prefs {
	if v := getenv(EnvOutputDir); v != "" {
		p.OutputDir = v
	}
	if v := getenv(EnvRenderDir); v != "" {
		p.RenderDir = v
	}
	if v := getenv(EnvTestDir); v != "" {
		p.TestDir = v
	}
	if v := getenv(EnvDevice); v != "" {
		p.Device = scene.Device(strings.ToUpper(v))
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			slog.Warn("config: ignoring bad worker count", "var", EnvWorkers, "value", v)
		} else {
			p.Workers = n
		}
	}
	return p.normalize()
}

func (p Prefs) normalize() Prefs {
	if p.Device != scene.DeviceCPU {
		p.Device = scene.DeviceGPU
	}
	if p.Supersample <= 0 {
		p.Supersample = Default().Supersample
	}
	return p
}
