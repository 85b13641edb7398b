package placement

import (
	"math"
	"math/rand"

	"fractal-bench/internal/geom"
)

// Crystal is one hexagonal crystal of the cave. Tilt is (x, y) in degrees; Spin is the
// random rotation about Z in degrees.
type Crystal struct {
	Location geom.Vec3
	Height   float64
	Radius   float64
	Tilt     [2]float64
	Spin     float64
	Material int
}

// Rotation returns the crystal's Euler rotation in radians.
func (c Crystal) Rotation() geom.Euler {
	return geom.Euler{X: geom.Radians(c.Tilt[0]), Y: geom.Radians(c.Tilt[1]), Z: geom.Radians(c.Spin)}
}

// CrystalMaterials is the number of crystal materials a crystal picks from.
const CrystalMaterials = 6

// Cluster sizes of the cave.
const (
	GroundCrystals  = 20
	SideCrystals    = 12
	CeilingCrystals = 10
	ceilingZ        = 5.0
)

// CrystalCave samples the three crystal clusters: a polar-random ground cluster around
// the origin, a rectangular side cluster on the left, and stalactites hanging from the
// ceiling. The draw order per crystal is position, height, radius, tilt, material, spin,
// so the sequence is fixed for a given seed.
func CrystalCave(rng *rand.Rand) []Crystal {
	out := make([]Crystal, 0, GroundCrystals+SideCrystals+CeilingCrystals)

	for i := 0; i < GroundCrystals; i++ {
		angle := uniform(rng, 0, 2*math.Pi)
		r := uniform(rng, 0, 1.5)
		x := r * math.Cos(angle)
		y := r * math.Sin(angle)
		h := uniform(rng, 0.5, 2.5)
		rad := uniform(rng, 0.06, 0.18)
		tilt := [2]float64{uniform(rng, -15, 15), uniform(rng, -15, 15)}
		mat := rng.Intn(CrystalMaterials)
		out = append(out, newCrystal(rng, geom.V(x, y, 0), h, rad, tilt, mat))
	}

	for i := 0; i < SideCrystals; i++ {
		x := uniform(rng, -3.5, -1.5)
		y := uniform(rng, -1, 2)
		h := uniform(rng, 0.3, 1.5)
		rad := uniform(rng, 0.04, 0.12)
		tilt := [2]float64{uniform(rng, -20, 20), uniform(rng, -20, 20)}
		mat := rng.Intn(CrystalMaterials)
		out = append(out, newCrystal(rng, geom.V(x, y, 0), h, rad, tilt, mat))
	}

	for i := 0; i < CeilingCrystals; i++ {
		x := uniform(rng, -2, 2)
		y := uniform(rng, -1, 3)
		h := uniform(rng, 0.5, 1.8)
		rad := uniform(rng, 0.05, 0.14)
		mat := rng.Intn(CrystalMaterials)
		out = append(out, newCrystal(rng, geom.V(x, y, ceilingZ), h, rad, [2]float64{180, 0}, mat))
	}
	return out
}

func newCrystal(rng *rand.Rand, loc geom.Vec3, h, rad float64, tilt [2]float64, mat int) Crystal {
	return Crystal{
		Location: loc,
		Height:   h,
		Radius:   rad,
		Tilt:     tilt,
		Spin:     uniform(rng, 0, 360),
		Material: mat,
	}
}

// crystalSides is the number of sides of the crystal prism.
const crystalSides = 6

// CrystalMesh returns the local-space vertices and faces of a hexagonal prism crystal
// with a pointed tip: a base hexagon at z=0, a top hexagon of 0.7·radius at 0.75·height,
// and the tip at height. Faces are 6 side quads, 6 tip triangles and 1 bottom hexagon.
func CrystalMesh(height, radius float64) ([]geom.Vec3, [][]int) {
	n := crystalSides
	verts := make([]geom.Vec3, 0, 2*n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		verts = append(verts, geom.V(radius*math.Cos(a), radius*math.Sin(a), 0))
	}
	topR := radius * 0.7
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		verts = append(verts, geom.V(topR*math.Cos(a), topR*math.Sin(a), height*0.75))
	}
	verts = append(verts, geom.V(0, 0, height))

	faces := make([][]int, 0, 2*n+1)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, []int{i, j, n + j, n + i})
	}
	tip := 2 * n
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, []int{n + i, n + j, tip})
	}
	bottom := make([]int, n)
	for i := range bottom {
		bottom[i] = i
	}
	faces = append(faces, bottom)
	return verts, faces
}

// PointLight is a small point light placed by a generator.
type PointLight struct {
	Location   geom.Vec3
	Energy     float64
	Color      geom.RGB
	SoftRadius float64
}

// crystalLightColors are the inner-glow colors of the cave point lights.
var crystalLightColors = []geom.RGB{
	{R: 0.5, G: 0.1, B: 1.0}, {R: 1.0, G: 0.8, B: 0.1}, {R: 0.1, G: 0.8, B: 1.0}, {R: 1.0, G: 0.3, B: 0.5},
}

// CrystalLights places inner-glow point lights just above crystals 0, 4, 8, 12 and
// deeper lights above crystals 2, 8, 14. Crystals missing from a short list are skipped.
func CrystalLights(crystals []Crystal) []PointLight {
	var out []PointLight
	for i := 0; i < 4; i++ {
		idx := i * 4
		if idx >= len(crystals) {
			break
		}
		c := crystals[idx]
		out = append(out, PointLight{
			Location:   c.Location.Add(geom.V(0, 0, 0.5)),
			Energy:     150,
			Color:      crystalLightColors[i],
			SoftRadius: 0.1,
		})
	}
	for i := 0; i < 3; i++ {
		idx := i*6 + 2
		if idx >= len(crystals) {
			break
		}
		c := crystals[idx]
		out = append(out, PointLight{
			Location:   c.Location.Add(geom.V(0, 0, 0.3)),
			Energy:     80,
			Color:      crystalLightColors[(i+2)%4],
			SoftRadius: 0.08,
		})
	}
	return out
}
