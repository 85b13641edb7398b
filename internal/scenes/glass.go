package scenes

import (
	"fmt"

	"fractal-bench/internal/fractal"
	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/scene"
)

// GlassFractal is a depth-4 Sierpinski tetrahedron in four colored glasses over a
// dark mirror, lit by four area lights aimed at a shared target.
var GlassFractal = register(&Script{
	Name:   "glass-fractal",
	Title:  "GLASS SIERPINSKI TETRAHEDRON",
	Output: "glass_fractal.png",
	Build:  buildGlassFractal,
})

func buildGlassFractal(s *scene.Scene) (string, error) {
	mats := []*material.Graph{
		material.Glass("Ruby Glass", rgb(0.9, 0.1, 0.15), 1.52, 0),
		material.Glass("Sapphire Glass", rgb(0.1, 0.2, 0.9), 1.77, 0),
		material.Glass("Emerald Glass", rgb(0.05, 0.8, 0.2), 1.58, 0),
		material.Glass("Amber Glass", rgb(0.95, 0.7, 0.1), 1.54, 0),
	}
	r := &scene.Realizer{Scene: s, Materials: mats, Smooth: true}
	tetras := fractal.Sierpinski(geom.Vec3{}, 3, 4, r.Tetra)
	created := fmt.Sprintf("%d tetrahedra", len(tetras))

	ground := s.AddPlane(30, geom.V(0, 0, -1))
	s.AddMaterial(ground, material.Principled("Dark Mirror", material.PrincipledOpts{
		BaseColor: rgb(0.01, 0.01, 0.02), Metallic: 1, Roughness: 0.03,
	}))

	var target *scene.Object
	for _, l := range []struct {
		loc          geom.Vec3
		color        geom.RGB
		energy, size float64
	}{
		{geom.V(5, -4, 6), rgb(1, 0.95, 0.9), 400, 3},
		{geom.V(-4, 5, 4), rgb(0.3, 0.5, 1), 200, 2},
		{geom.V(0, -6, 2), rgb(1, 0.3, 0.1), 150, 1.5},
		{geom.V(0, 0, 8), rgb(1, 1, 1), 100, 4},
	} {
		light := areaLight(s, l.loc, l.color, l.energy, l.size)
		if target == nil {
			target = s.AddEmpty("Target", geom.V(0, 0, 0.3))
		}
		light.SetTrackTo(target)
	}

	cam := s.AddCamera(geom.V(5.5, -5, 4))
	s.Camera = cam.Name
	cam.SetTrackTo(target)
	cam.Camera.DOF.Use = true
	cam.Camera.DOF.FocusObject = target.Name
	cam.Camera.DOF.FStop = 4

	s.World = material.World("FractalWorld", rgb(0.005, 0.005, 0.015), 0.3,
		&material.VolumeOpts{Color: rgb(0.7, 0.8, 1), Density: 0.008})

	gpuStill(&s.Render, 512)
	s.Render.MaxBounces = 16
	s.Render.GlossyBounces = 8
	s.Render.TransmissionBounces = 12
	return created, nil
}
