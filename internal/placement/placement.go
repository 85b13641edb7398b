// Package placement produces the flat, procedurally placed primitive lists used by the
// spiral, crystal cave and mirror corridor scenes. Closed-form layouts are pure functions
// of their index; random layouts draw everything from the *rand.Rand they are given, so a
// fixed seed reproduces the same placement sequence.
package placement

import (
	"math"
	"math/rand"

	"fractal-bench/internal/geom"
)

// Seed is the fixed seed every seeded scene uses.
const Seed = 42

// NewRand returns the generator the seeded scenes draw from.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(Seed))
}

// GoldenAngle is π(3 − √5), about 137.5°.
var GoldenAngle = math.Pi * (3 - math.Sqrt(5))

// uniform returns a value in [a, b), matching the usual uniform(a, b) helper.
func uniform(rng *rand.Rand, a, b float64) float64 {
	return a + (b-a)*rng.Float64()
}

// SpiralPoint returns the (x, y) position of spiral element i:
// r = 0.15·√i, θ = i·goldenAngle.
func SpiralPoint(i int, goldenAngle float64) (x, y float64) {
	theta := float64(i) * goldenAngle
	r := 0.15 * math.Sqrt(float64(i))
	return r * math.Cos(theta), r * math.Sin(theta)
}

// Sphere is one sphere of the golden spiral.
type Sphere struct {
	Location geom.Vec3
	Radius   float64
	Material int
}

// spiralMaterials is the number of metal/jade materials the spiral cycles through.
const spiralMaterials = 5

// GoldenSpiral lays n spheres on a Fibonacci spiral. Spheres shrink from 0.14 at the
// center toward 0.08 at the rim and rest on the ground plane (z = radius).
func GoldenSpiral(n int) []Sphere {
	out := make([]Sphere, 0, n)
	for i := 0; i < n; i++ {
		x, y := SpiralPoint(i, GoldenAngle)
		size := 0.08 + 0.06*(1-float64(i)/float64(n))
		out = append(out, Sphere{
			Location: geom.V(x, y, size),
			Radius:   size,
			Material: i % spiralMaterials,
		})
	}
	return out
}

// Orb is a small emissive sphere.
type Orb struct {
	Location geom.Vec3
	Radius   float64
	Color    geom.RGB
	Strength float64
	// Cube is set for orbs drawn as cubes rather than spheres.
	Cube bool
}

// accentColors are the fixed emission colors of the spiral accents.
var accentColors = []geom.RGB{
	{R: 1, G: 0.6, B: 0.1}, {R: 0.1, G: 0.6, B: 1}, {R: 1, G: 0.2, B: 0.4}, {R: 0.2, G: 1, B: 0.4},
	{R: 0.7, G: 0.2, B: 1}, {R: 1, G: 0.4, B: 0.05}, {R: 0.05, G: 0.8, B: 0.8}, {R: 1, G: 0.1, B: 0.5},
}

// SpiralAccents returns the small glowing orbs tucked among the spiral spheres.
// n is capped at the number of accent colors.
func SpiralAccents(n int) []Orb {
	if n > len(accentColors) {
		n = len(accentColors)
	}
	out := make([]Orb, 0, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * GoldenAngle * 30
		r := 0.15 * math.Sqrt(float64(i*35))
		out = append(out, Orb{
			Location: geom.V(r*math.Cos(angle), r*math.Sin(angle), 0.15),
			Radius:   0.03,
			Color:    accentColors[i],
			Strength: 15,
		})
	}
	return out
}
