package scenes

import (
	"fmt"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/placement"
	"fractal-bench/internal/scene"
)

// SpiralSpheres is the number of spheres on the golden spiral.
const SpiralSpheres = 300

// GoldenSpiral lays metal and jade spheres on a Fibonacci spiral with a few
// glowing accents, under a three-point area light rig.
var GoldenSpiral = register(&Script{
	Name:   "golden-spiral",
	Title:  "GOLDEN FIBONACCI SPIRAL",
	Output: "golden_spiral.png",
	Build:  buildGoldenSpiral,
})

func buildGoldenSpiral(s *scene.Scene) (string, error) {
	jadeRadius := rgb(0.1, 0.8, 0.2)
	mats := []*material.Graph{
		material.Principled("Gold", material.PrincipledOpts{BaseColor: rgb(0.95, 0.75, 0.15), Metallic: 1, Roughness: 0.08}),
		material.Principled("Copper", material.PrincipledOpts{BaseColor: rgb(0.85, 0.45, 0.2), Metallic: 1, Roughness: 0.12}),
		material.Principled("Bronze", material.PrincipledOpts{BaseColor: rgb(0.7, 0.45, 0.2), Metallic: 1, Roughness: 0.15}),
		material.Principled("Jade", material.PrincipledOpts{BaseColor: rgb(0.15, 0.6, 0.3), Roughness: 0.2,
			Subsurface: 0.6, SubsurfaceRadius: &jadeRadius}),
		material.Principled("RoseGold", material.PrincipledOpts{BaseColor: rgb(0.85, 0.5, 0.45), Metallic: 1, Roughness: 0.1}),
	}

	spheres := placement.GoldenSpiral(SpiralSpheres)
	for _, sp := range spheres {
		o := s.AddUVSphere(sp.Radius, 24, 16, sp.Location)
		s.AddMaterial(o, mats[sp.Material])
		o.Mesh.Smooth = true
	}
	created := fmt.Sprintf("%d spheres", len(spheres))

	for i, orb := range placement.SpiralAccents(8) {
		o := s.AddUVSphere(orb.Radius, 0, 0, orb.Location)
		s.AddMaterial(o, material.Emission(fmt.Sprintf("Orb%d", i), orb.Color, orb.Strength))
		o.Mesh.Smooth = true
	}

	ground := s.AddPlane(20, geom.Vec3{})
	s.AddMaterial(ground, material.Principled("Ground", material.PrincipledOpts{
		BaseColor: rgb(0.02, 0.02, 0.025), Metallic: 1, Roughness: 0.05,
	}))

	areaLight(s, geom.V(4, -3, 5), rgb(1, 0.9, 0.75), 1200, 2)
	areaLight(s, geom.V(-3, 4, 3), rgb(0.3, 0.4, 1), 350, 1.8)
	areaLight(s, geom.V(0, -4, 1.5), rgb(1, 0.5, 0.15), 450, 1.2)

	cam, target := trackedCamera(s, geom.V(3.5, -3.5, 3.2), "SpiralTarget", geom.V(0, 0, 0.3))
	cam.Camera.DOF.Use = true
	cam.Camera.DOF.FocusObject = target.Name
	cam.Camera.DOF.FStop = 2.8
	cam.Camera.Lens = 50

	s.World = material.World("SpiralWorld", rgb(0, 0, 0), 0, nil)

	gpuStill(&s.Render, 384)
	s.Render.MaxBounces = 12
	return created, nil
}
