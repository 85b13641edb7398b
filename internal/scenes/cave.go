package scenes

import (
	"fmt"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/placement"
	"fractal-bench/internal/scene"
)

// crystalColors are the six crystal materials, indexed by placement.Crystal.Material.
var crystalColors = []struct {
	name     string
	color    geom.RGB
	emission float64
}{
	{"Amethyst", rgb(0.6, 0.1, 0.9), 10},
	{"Citrine", rgb(1, 0.8, 0.1), 8},
	{"Aquamarine", rgb(0.1, 0.8, 1), 12},
	{"Rose Quartz", rgb(1, 0.3, 0.5), 6},
	{"Clear Quartz", rgb(0.85, 0.85, 0.95), 3},
	{"Emerald", rgb(0.1, 0.9, 0.3), 9},
}

// CrystalCave grows glowing hexagonal crystals from the floor, a side wall and the
// ceiling of a dark cave, with point lights inside some of them.
var CrystalCave = register(&Script{
	Name:   "crystal-cave",
	Title:  "CRYSTAL CAVE",
	Output: "crystal_cave.png",
	Build:  buildCrystalCave,
})

func buildCrystalCave(s *scene.Scene) (string, error) {
	mats := make([]*material.Graph, len(crystalColors))
	for i, c := range crystalColors {
		mats[i] = material.Crystal(c.name, c.color, c.emission)
	}

	floor := s.AddPlane(10, geom.Vec3{})
	s.AddMaterial(floor, material.Rock("Cave Rock", rgb(0.015, 0.012, 0.01)))

	crystals := placement.CrystalCave(placement.NewRand())
	for _, c := range crystals {
		verts, faces := placement.CrystalMesh(c.Height, c.Radius)
		o, err := s.AddMesh("Crystal", verts, faces)
		if err != nil {
			return "", err
		}
		o.Location = c.Location
		o.Rotation = c.Rotation()
		o.Mesh.Smooth = true
		s.AddMaterial(o, mats[c.Material])
	}
	created := fmt.Sprintf("%d crystals", len(crystals))

	for _, l := range placement.CrystalLights(crystals) {
		pointLight(s, l.Location, l.Color, l.Energy, l.SoftRadius)
	}
	areaLight(s, geom.V(3, -4, 4), rgb(1, 0.9, 0.75), 800, 1.5)
	areaLight(s, geom.V(-3, 3, 3), rgb(0.3, 0.3, 0.9), 300, 1.5)
	areaLight(s, geom.V(0, 2, 1.5), rgb(0.9, 0.4, 0.1), 250, 0.8)

	cam, target := trackedCamera(s, geom.V(3, -3.5, 2), "CaveTarget", geom.V(0, 0, 1))
	cam.Camera.Lens = 35
	cam.Camera.DOF.Use = true
	cam.Camera.DOF.FocusObject = target.Name
	cam.Camera.DOF.FStop = 3.5

	s.World = material.World("CaveWorld", rgb(0, 0, 0), 0, nil)

	gpuStill(&s.Render, 384)
	s.Render.MaxBounces = 16
	s.Render.TransmissionBounces = 12
	s.Render.VolumeBounces = 4
	return created, nil
}
