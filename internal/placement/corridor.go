package placement

import (
	"fmt"
	"math/rand"

	"fractal-bench/internal/geom"
)

// Corridor dimensions of the mirror scene.
const (
	CorridorLength = 14.0
	CorridorWidth  = 2.8
	CorridorHeight = 3.2
)

// Shape is the primitive an Element is realized as.
type Shape int

const (
	ShapePlane Shape = iota
	ShapeCube
	ShapeSphere
)

// Element is one placed primitive of the corridor. Planes and cubes are unit-sized and
// stretched by Scale. Strength 0 marks a mirror panel; anything else is neon emission.
type Element struct {
	Name     string
	Shape    Shape
	Location geom.Vec3
	Rotation geom.Euler
	Scale    geom.Vec3
	Color    geom.RGB
	Strength float64
	// Dark selects the darker floor mirror for panels.
	Dark bool
}

// NeonColors are the saturated colors the cross bars cycle through.
var NeonColors = []geom.RGB{
	{R: 1.0, G: 0.05, B: 0.2}, // hot pink
	{R: 0.05, G: 0.3, B: 1.0}, // electric blue
	{R: 0.0, G: 1.0, B: 0.4},  // neon green
	{R: 1.0, G: 0.4, B: 0.0},  // orange
	{R: 0.5, G: 0.0, B: 1.0},  // purple
}

// crossBars is the number of neon frames along the corridor.
const crossBars = 12

// MirrorPanels returns the six mirror planes enclosing the corridor: floor, ceiling, both
// walls, the far wall and the wall behind the camera.
func MirrorPanels() []Element {
	L, W, H := CorridorLength, CorridorWidth, CorridorHeight
	return []Element{
		{Name: "Floor", Shape: ShapePlane, Location: geom.V(0, L/2, 0), Scale: geom.V(W/2, L/2, 1), Dark: true},
		{Name: "Ceiling", Shape: ShapePlane, Location: geom.V(0, L/2, H), Scale: geom.V(W/2, L/2, 1)},
		{Name: "LeftWall", Shape: ShapePlane, Location: geom.V(-W/2, L/2, H/2),
			Rotation: geom.Euler{Y: geom.Radians(-90)}, Scale: geom.V(H/2, L/2, 1)},
		{Name: "RightWall", Shape: ShapePlane, Location: geom.V(W/2, L/2, H/2),
			Rotation: geom.Euler{Y: geom.Radians(90)}, Scale: geom.V(H/2, L/2, 1)},
		{Name: "BackWall", Shape: ShapePlane, Location: geom.V(0, L, H/2),
			Rotation: geom.Euler{X: geom.Radians(-90)}, Scale: geom.V(W/2, H/2, 1)},
		{Name: "FrontWall", Shape: ShapePlane, Location: geom.V(0, -0.05, H/2),
			Rotation: geom.Euler{X: geom.Radians(90)}, Scale: geom.V(W/2, H/2, 1)},
	}
}

// NeonElements returns the four LED strips running the length of the corridor edges
// followed by the 12 cross-bar frames (ceiling, floor, left and right bar each).
func NeonElements() []Element {
	L, W, H := CorridorLength, CorridorWidth, CorridorHeight
	edges := []struct {
		x, z  float64
		color geom.RGB
	}{
		{-W/2 + 0.01, 0.01, geom.RGB{R: 1.0, G: 0.05, B: 0.2}},
		{W/2 - 0.01, 0.01, geom.RGB{R: 0.05, G: 0.3, B: 1.0}},
		{-W/2 + 0.01, H - 0.01, geom.RGB{R: 0.5, G: 0.0, B: 1.0}},
		{W/2 - 0.01, H - 0.01, geom.RGB{R: 0.0, G: 1.0, B: 0.4}},
	}
	out := make([]Element, 0, len(edges)+4*crossBars)
	for i, e := range edges {
		out = append(out, Element{
			Name:     fmt.Sprintf("Edge_%d", i),
			Shape:    ShapeCube,
			Location: geom.V(e.x, L/2, e.z),
			Scale:    geom.V(0.015, L/2, 0.015),
			Color:    e.color,
			Strength: 50,
		})
	}

	const strength = 35.0
	for i := 0; i < crossBars; i++ {
		y := 0.8 + float64(i)*1.1
		c := NeonColors[i%len(NeonColors)]
		out = append(out,
			Element{Name: fmt.Sprintf("Ceil_%d", i), Shape: ShapeCube, Location: geom.V(0, y, H-0.02),
				Scale: geom.V(W*0.48, 0.012, 0.012), Color: c, Strength: strength},
			Element{Name: fmt.Sprintf("Floor_%d", i), Shape: ShapeCube, Location: geom.V(0, y, 0.02),
				Scale: geom.V(W*0.45, 0.01, 0.01), Color: c, Strength: strength * 0.6},
			Element{Name: fmt.Sprintf("LWall_%d", i), Shape: ShapeCube, Location: geom.V(-W/2+0.02, y, H/2),
				Scale: geom.V(0.01, 0.01, H*0.48), Color: c, Strength: strength * 0.8},
			Element{Name: fmt.Sprintf("RWall_%d", i), Shape: ShapeCube, Location: geom.V(W/2-0.02, y, H/2),
				Scale: geom.V(0.01, 0.01, H*0.48), Color: c, Strength: strength * 0.8},
		)
	}
	return out
}

// MirrorOrbs scatters n glowing orbs through the corridor volume, keeping clear of the
// walls and the camera end. Shape, radius, position, color and strength all come from rng.
func MirrorOrbs(rng *rand.Rand, n int) []Orb {
	W, H, L := CorridorWidth, CorridorHeight, CorridorLength
	out := make([]Orb, 0, n)
	for i := 0; i < n; i++ {
		cube := rng.Intn(2) == 1
		radius := uniform(rng, 0.05, 0.18)
		x := uniform(rng, -W/2+0.3, W/2-0.3)
		y := uniform(rng, 2.0, L-1.0)
		z := uniform(rng, 0.3, H-0.3)
		c := NeonColors[rng.Intn(len(NeonColors))]
		out = append(out, Orb{
			Location: geom.V(x, y, z),
			Radius:   radius,
			Color:    c,
			Strength: uniform(rng, 8, 20),
			Cube:     cube,
		})
	}
	return out
}
