package scenes

import (
	"fmt"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/placement"
	"fractal-bench/internal/scene"
)

// MirrorOrbCount is the number of glowing orbs floating in the corridor.
const MirrorOrbCount = 6

// InfiniteMirrors is a mirror-lined corridor framed by neon bars, whose reflections
// recede toward a vanishing point.
var InfiniteMirrors = register(&Script{
	Name:   "infinite-mirrors",
	Title:  "INFINITE MIRROR CORRIDOR",
	Output: "infinite_mirrors.png",
	Note:   " (64 max bounces)",
	Build:  buildInfiniteMirrors,
})

func buildInfiniteMirrors(s *scene.Scene) (string, error) {
	mirror := material.Mirror("Mirror", material.DefaultMirrorTint)
	dark := material.Mirror("DarkMirror", rgb(0.88, 0.88, 0.9))

	for _, p := range placement.MirrorPanels() {
		o := addElement(s, p)
		if p.Dark {
			s.AddMaterial(o, dark)
		} else {
			s.AddMaterial(o, mirror)
		}
	}

	neon := placement.NeonElements()
	for _, e := range neon {
		o := addElement(s, e)
		s.AddMaterial(o, material.Emission(e.Name, e.Color, e.Strength))
	}
	created := fmt.Sprintf("corridor with %d neon elements", len(neon))

	for i, orb := range placement.MirrorOrbs(placement.NewRand(), MirrorOrbCount) {
		var o *scene.Object
		if orb.Cube {
			o = s.AddCube(2*orb.Radius, orb.Location)
		} else {
			o = s.AddUVSphere(orb.Radius, 0, 0, orb.Location)
			o.Mesh.Smooth = true
		}
		s.AddMaterial(o, material.Emission(fmt.Sprintf("MirrorOrb_%d", i), orb.Color, orb.Strength))
	}

	cam, _ := trackedCamera(s, geom.V(0.2, 0.4, 1.5), "CorridorEnd", geom.V(0, placement.CorridorLength, 1.6))
	cam.Camera.Lens = 24
	cam.Camera.DOF.Use = true
	cam.Camera.DOF.FocusDistance = 5
	cam.Camera.DOF.FStop = 5.6

	s.World = material.World("MirrorWorld", rgb(0, 0, 0), 0, nil)

	gpuStill(&s.Render, 512)
	s.Render.MaxBounces = 64
	s.Render.GlossyBounces = 56
	s.Render.DiffuseBounces = 4
	s.Render.TransmissionBounces = 8
	return created, nil
}

// addElement realizes a unit-sized corridor element stretched by its scale.
func addElement(s *scene.Scene, e placement.Element) *scene.Object {
	var o *scene.Object
	switch e.Shape {
	case placement.ShapePlane:
		o = s.AddPlane(1, e.Location)
	case placement.ShapeSphere:
		o = s.AddUVSphere(0.5, 0, 0, e.Location)
	default:
		o = s.AddCube(1, e.Location)
	}
	o.Rotation = e.Rotation
	o.Scale = e.Scale
	return o
}
