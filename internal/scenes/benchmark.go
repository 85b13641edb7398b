package scenes

import (
	"fmt"

	"fractal-bench/internal/fractal"
	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/scene"
)

// Benchmark scene constants.
const (
	SpongeSize  = 3.0
	SpongeDepth = 2
	CoreName    = "Core Light"
	CameraName  = "Benchmark Camera"
	WorldName   = "Benchmark World"
	SpongeGroup = "Menger Sponge"
)

// BuildBenchmark fills s with the Menger sponge benchmark scene and returns the
// number of fractal cubes. Render settings are left to the caller.
func BuildBenchmark(s *scene.Scene) (int, error) {
	mats := []*material.Graph{
		material.Glass("Glass Blue", rgb(0.2, 0.4, 0.9), 1.45, 0.02),
		material.Glass("Glass Amber", rgb(0.9, 0.6, 0.1), 1.45, 0.05),
		material.Metal("Metal Gold", rgb(0.95, 0.75, 0.2), 0.1),
		material.Metal("Metal Chrome", rgb(0.8, 0.8, 0.85), 0.05),
	}
	r := &scene.Realizer{Scene: s, Materials: mats, Collection: s.NewCollection(SpongeGroup)}
	cubes := fractal.MengerSponge(geom.Vec3{}, SpongeSize, SpongeDepth, r.Cube)

	ground := s.AddPlane(20, geom.V(0, 0, -1.8))
	s.Rename(ground, "Ground")
	s.AddMaterial(ground, material.Metal("Ground Mirror", rgb(0.02, 0.02, 0.03), 0.02))

	core := s.AddUVSphere(0.15, 0, 0, geom.Vec3{})
	s.Rename(core, CoreName)
	s.AddMaterial(core, material.Emission("Core Emission", rgb(1, 0.8, 0.4), 50))

	for i, l := range []struct {
		loc    geom.Vec3
		color  geom.RGB
		energy float64
	}{
		{geom.V(4, -3, 4), rgb(0.8, 0.9, 1), 200},
		{geom.V(-3, 4, 3), rgb(1, 0.7, 0.3), 100},
		{geom.V(0, -5, 1), rgb(0.4, 0.5, 1), 80},
	} {
		o := areaLight(s, l.loc, l.color, l.energy, 2)
		s.Rename(o, fmt.Sprintf("Area Light %d", i+1))
		o.Rotation = geom.LookAtEuler(l.loc, geom.Vec3{})
	}

	cam := s.AddCamera(geom.V(4.5, -4.5, 3.5))
	s.Camera = cam.Name
	s.Rename(cam, CameraName)
	cam.Rotation = geom.Euler{X: geom.Radians(60), Z: geom.Radians(45)}
	cam.SetTrackTo(core)

	s.World = material.World(WorldName, rgb(0.01, 0.01, 0.03), 0.5,
		&material.VolumeOpts{Color: rgb(0.8, 0.85, 1), Density: 0.02})
	return len(cubes), nil
}

// ConfigureBenchmark sets one benchmark pass: GPU, denoised, opaque 16-bit PNG.
func ConfigureBenchmark(rs *scene.RenderSettings, samples, width, height int) {
	rs.Engine = "CYCLES"
	rs.Device = scene.DeviceGPU
	rs.Samples = samples
	rs.Denoise = true
	rs.ResolutionX = width
	rs.ResolutionY = height
	rs.ResolutionPercentage = 100
	rs.FilmTransparent = false
	rs.FileFormat = "PNG"
	rs.ColorDepth = 16
}
