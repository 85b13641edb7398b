package raster

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/scene"
)

func TestKey(t *testing.T) {
	k, unit := key(&scene.Mesh{Primitive: scene.PrimitiveCube, Size: 0.5})
	assert.Equal(t, "cube", k)
	assert.Equal(t, 0.5, unit)

	k, unit = key(&scene.Mesh{Primitive: scene.PrimitiveUVSphere, Radius: 0.1, Segments: 24, Rings: 16})
	assert.Equal(t, "sphere/16/24", k)
	assert.Equal(t, 0.1, unit)

	k, _ = key(&scene.Mesh{Primitive: scene.PrimitiveCustom})
	assert.Empty(t, k)
}

func TestNew(t *testing.T) {
	e := New(Options{})
	assert.Equal(t, 2, e.opts.Supersample)
	assert.Equal(t, Name, e.Name())
	assert.Equal(t, scene.DeviceGPU, e.Device())
	e.Close()
}

// TestRender needs an OpenGL context, so it only runs with BENCH_GL_TESTS set.
func TestRender(t *testing.T) {
	if os.Getenv("BENCH_GL_TESTS") == "" {
		t.Skip("set BENCH_GL_TESTS to render on the GPU")
	}
	s := scene.New()
	cube := s.AddCube(2, geom.Vec3{})
	s.AddMaterial(cube, material.Emission("Glow", geom.RGB{R: 1, G: 0.5, B: 0.2}, 5))
	cam := s.AddCamera(geom.V(0, -6, 0))
	cam.SetTrackTo(cube)
	s.Render.ResolutionX, s.Render.ResolutionY = 32, 24

	e := New(Options{})
	defer e.Close()
	f, err := e.Render(context.Background(), s)
	if errors.Is(err, ErrUnavailable) {
		t.Skip(err)
	}
	require.NoError(t, err)
	assert.Equal(t, 32, f.Width)
	assert.Equal(t, 24, f.Height)
	center := f.At(16, 12)
	assert.Greater(t, center.R, f.At(0, 0).R)
}
