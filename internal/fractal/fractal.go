// Package fractal generates the recursive fractal leaves the benchmark and glass
// scenes are built from. Generators are pure: they compute leaf primitives and hand
// each one to an optional sink in generation order, so callers can realize leaves as
// scene objects while the generator runs.
package fractal

import (
	"math"

	"fractal-bench/internal/geom"
)

// Cube is one leaf cell of a Menger sponge: an axis-aligned cube with edge length Size.
type Cube struct {
	Center geom.Vec3
	Size   float64
}

// Box returns the cube's bounding box.
func (c Cube) Box() geom.Box { return geom.CubeBox(c.Center, c.Size) }

// Tetra is one leaf of a Sierpinski tetrahedron, sized by the edge-scale Size used
// in TetraVertices.
type Tetra struct {
	Center geom.Vec3
	Size   float64
}

// Vertices returns the four corner points of the leaf.
func (t Tetra) Vertices() [4]geom.Vec3 { return TetraVertices(t.Center, t.Size) }

// CubeSink receives each sponge leaf with its zero-based output index.
type CubeSink func(index int, leaf Cube)

// TetraSink receives each tetrahedron leaf with its zero-based output index.
type TetraSink func(index int, leaf Tetra)

// MengerSponge returns every depth-0 cube of a Menger sponge centered at center with
// edge length size. At each level the cube is split into 27 cells of a third of the
// size and the 7 cells forming the center cross (two or more offset indices equal to
// zero) are skipped, leaving 20 children. Depth 0 is the base case and yields the
// cube itself. sink may be nil.
func MengerSponge(center geom.Vec3, size float64, depth int, sink CubeSink) []Cube {
	out := make([]Cube, 0, MengerLeafCount(depth))
	menger(center, size, depth, func(c Cube) {
		if sink != nil {
			sink(len(out), c)
		}
		out = append(out, c)
	})
	return out
}

func menger(center geom.Vec3, size float64, depth int, emit func(Cube)) {
	if depth <= 0 {
		emit(Cube{Center: center, Size: size})
		return
	}
	step := size / 3.0
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if axesAtZero(x, y, z) >= 2 {
					continue
				}
				child := geom.Vec3{
					X: center.X + float64(x)*step,
					Y: center.Y + float64(y)*step,
					Z: center.Z + float64(z)*step,
				}
				menger(child, step, depth-1, emit)
			}
		}
	}
}

func axesAtZero(x, y, z int) int {
	n := 0
	for _, v := range [3]int{x, y, z} {
		if v == 0 {
			n++
		}
	}
	return n
}

// MengerLeafCount returns 20^depth, the number of leaves MengerSponge produces.
func MengerLeafCount(depth int) int {
	return intPow(20, depth)
}

// MengerMaterialIndex picks a material slot for a sponge leaf from a hash of its
// position: int(|7x + 13y + 19z|) mod n. The conversion truncates toward zero.
func MengerMaterialIndex(center geom.Vec3, n int) int {
	if n <= 0 {
		return 0
	}
	h := math.Abs(center.X*7 + center.Y*13 + center.Z*19)
	return int(h) % n
}

// Tetrahedron vertex offsets, as multiples of size.
const (
	tetraTop   = 0.612
	tetraHalf  = 0.5
	tetraBack  = 0.289
	tetraFront = 0.577
	tetraBase  = 0.204
)

// TetraFaces are the triangle indices into TetraVertices for one leaf mesh.
var TetraFaces = [4][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}}

// TetraVertices returns the 4 vertices of a regular tetrahedron around center.
// The first vertex is the apex; the other three form the base triangle.
func TetraVertices(center geom.Vec3, size float64) [4]geom.Vec3 {
	cx, cy, cz := center.X, center.Y, center.Z
	s := size
	return [4]geom.Vec3{
		{X: cx, Y: cy, Z: cz + s*tetraTop},
		{X: cx + s*tetraHalf, Y: cy - s*tetraBack, Z: cz - s*tetraBase},
		{X: cx - s*tetraHalf, Y: cy - s*tetraBack, Z: cz - s*tetraBase},
		{X: cx, Y: cy + s*tetraFront, Z: cz - s*tetraBase},
	}
}

// Sierpinski returns every depth-0 tetrahedron of a Sierpinski tetrahedron. Each
// level replaces the tetrahedron with four children of half the size, one per vertex,
// centered at the midpoint between the parent center and that vertex. sink may be nil.
func Sierpinski(center geom.Vec3, size float64, depth int, sink TetraSink) []Tetra {
	out := make([]Tetra, 0, SierpinskiLeafCount(depth))
	sierpinski(center, size, depth, func(t Tetra) {
		if sink != nil {
			sink(len(out), t)
		}
		out = append(out, t)
	})
	return out
}

func sierpinski(center geom.Vec3, size float64, depth int, emit func(Tetra)) {
	if depth <= 0 {
		emit(Tetra{Center: center, Size: size})
		return
	}
	half := size / 2.0
	for _, v := range TetraVertices(center, size) {
		sierpinski(center.Midpoint(v), half, depth-1, emit)
	}
}

// SierpinskiLeafCount returns 4^depth, the number of leaves Sierpinski produces.
func SierpinskiLeafCount(depth int) int {
	return intPow(4, depth)
}

// SierpinskiMaterialIndex is the material slot for the leaf at output index i.
func SierpinskiMaterialIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return i % n
}

func intPow(b, e int) int {
	r := 1
	for i := 0; i < e; i++ {
		r *= b
	}
	return r
}
