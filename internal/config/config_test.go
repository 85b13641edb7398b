package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/output"
	"fractal-bench/internal/scene"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	p, err := Load(store, Path)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	want := Default()
	want.RenderDir = "/data/renders"
	want.Device = scene.DeviceCPU
	want.Workers = 3
	require.NoError(t, Save(store, Path, want))

	got, err := Load(store, Path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	require.NoError(t, store.Write(Path, []byte(`{"render_dir": "/r"}`)))
	p, err := Load(store, Path)
	require.NoError(t, err)
	assert.Equal(t, "/r", p.RenderDir)
	assert.Equal(t, Default().OutputDir, p.OutputDir)
	assert.Equal(t, scene.DeviceGPU, p.Device)
}

func TestLoadInvalid(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	require.NoError(t, store.Write(Path, []byte("{")))
	p, err := Load(store, Path)
	assert.Error(t, err)
	assert.Equal(t, Default(), p)
}

func TestWithEnv(t *testing.T) {
	env := map[string]string{
		EnvOutputDir: "/o",
		EnvDevice:    "cpu",
		EnvWorkers:   "x",
	}
	p := Default().WithEnv(func(k string) string { return env[k] })
	assert.Equal(t, "/o", p.OutputDir)
	assert.Equal(t, scene.DeviceCPU, p.Device)
	assert.Equal(t, 0, p.Workers)

	env[EnvWorkers] = "6"
	env[EnvDevice] = "tpu"
	p = Default().WithEnv(func(k string) string { return env[k] })
	assert.Equal(t, 6, p.Workers)
	assert.Equal(t, scene.DeviceGPU, p.Device)
}
