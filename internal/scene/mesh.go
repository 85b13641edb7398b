package scene

import (
	"errors"
	"fmt"
	"math"

	"fractal-bench/internal/geom"
)

// Primitive names the generator of a mesh.
type Primitive string

const (
	PrimitiveCube     Primitive = "cube"
	PrimitiveUVSphere Primitive = "uv_sphere"
	PrimitivePlane    Primitive = "plane"
	PrimitiveCustom   Primitive = "custom"
)

// Default UV sphere resolution.
const (
	DefaultSegments = 32
	DefaultRings    = 16
)

// Mesh is mesh data. Primitive meshes are described by their parameters and
// generated on demand; custom meshes store vertices and polygon faces.
type Mesh struct {
	Primitive Primitive `yaml:"primitive"`
	Size      float64   `yaml:"size,omitempty"`
	Radius    float64   `yaml:"radius,omitempty"`
	Segments  int       `yaml:"segments,omitempty"`
	Rings     int       `yaml:"rings,omitempty"`
	Smooth    bool      `yaml:"smooth,omitempty"`

	Vertices []geom.Vec3 `yaml:"vertices,omitempty"`
	Faces    [][]int     `yaml:"faces,omitempty"`
}

// ErrBadFace is returned for faces with fewer than three vertices or out-of-range indices.
var ErrBadFace = errors.New("bad face")

// Validate checks face arity and vertex indices.
func (m *Mesh) Validate() error {
	verts, faces := m.Geometry()
	for i, f := range faces {
		if len(f) < 3 {
			return fmt.Errorf("face %d has %d vertices: %w", i, len(f), ErrBadFace)
		}
		for _, idx := range f {
			if idx < 0 || idx >= len(verts) {
				return fmt.Errorf("face %d index %d out of range: %w", i, idx, ErrBadFace)
			}
		}
	}
	return nil
}

// Geometry returns the mesh's local vertices and polygon faces.
func (m *Mesh) Geometry() ([]geom.Vec3, [][]int) {
	switch m.Primitive {
	case PrimitiveCube:
		return cubeGeometry(m.Size)
	case PrimitiveUVSphere:
		return sphereGeometry(m.Radius, m.Segments, m.Rings)
	case PrimitivePlane:
		return planeGeometry(m.Size)
	default:
		return m.Vertices, m.Faces
	}
}

// cubeGeometry returns an axis-aligned cube of edge size centered at the origin,
// faces wound counter-clockwise seen from outside.
func cubeGeometry(size float64) ([]geom.Vec3, [][]int) {
	h := size / 2
	verts := []geom.Vec3{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	faces := [][]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{2, 3, 7, 6}, // +Y
		{1, 2, 6, 5}, // +X
		{3, 0, 4, 7}, // -X
	}
	return verts, faces
}

func planeGeometry(size float64) ([]geom.Vec3, [][]int) {
	h := size / 2
	verts := []geom.Vec3{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
	return verts, [][]int{{0, 1, 2, 3}}
}

// sphereGeometry returns a UV sphere: a top pole, rings-1 latitude loops of segments
// vertices, and a bottom pole. Pole caps are triangles, the rest quads.
func sphereGeometry(radius float64, segments, rings int) ([]geom.Vec3, [][]int) {
	if segments < 3 {
		segments = DefaultSegments
	}
	if rings < 3 {
		rings = DefaultRings
	}
	verts := make([]geom.Vec3, 0, segments*(rings-1)+2)
	verts = append(verts, geom.V(0, 0, radius))
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		z := radius * math.Cos(phi)
		rr := radius * math.Sin(phi)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			verts = append(verts, geom.V(rr*math.Cos(theta), rr*math.Sin(theta), z))
		}
	}
	bottom := len(verts)
	verts = append(verts, geom.V(0, 0, -radius))

	ring := func(r, s int) int { return 1 + (r-1)*segments + (s % segments) }
	faces := make([][]int, 0, segments*rings)
	for s := 0; s < segments; s++ {
		faces = append(faces, []int{0, ring(1, s), ring(1, s+1)})
	}
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			faces = append(faces, []int{ring(r, s), ring(r+1, s), ring(r+1, s+1), ring(r, s+1)})
		}
	}
	for s := 0; s < segments; s++ {
		faces = append(faces, []int{ring(rings-1, s), bottom, ring(rings-1, s+1)})
	}
	return verts, faces
}

// Triangulate fans each polygon into triangles.
func Triangulate(faces [][]int) [][3]int {
	n := 0
	for _, f := range faces {
		if len(f) >= 3 {
			n += len(f) - 2
		}
	}
	out := make([][3]int, 0, n)
	for _, f := range faces {
		for i := 1; i+1 < len(f); i++ {
			out = append(out, [3]int{f[0], f[i], f[i+1]})
		}
	}
	return out
}

// VertexNormals returns area-weighted per-vertex normals.
func VertexNormals(verts []geom.Vec3, tris [][3]int) []geom.Vec3 {
	out := make([]geom.Vec3, len(verts))
	for _, t := range tris {
		a, b, c := verts[t[0]], verts[t[1]], verts[t[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, i := range t {
			out[i] = out[i].Add(n)
		}
	}
	for i := range out {
		out[i] = out[i].Norm()
	}
	return out
}

type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Subdivide applies levels of Catmull-Clark subdivision. Boundary edges and vertices
// follow the crease rules, so open meshes keep their outline.
func Subdivide(verts []geom.Vec3, faces [][]int, levels int) ([]geom.Vec3, [][]int) {
	for ; levels > 0; levels-- {
		verts, faces = catmullClark(verts, faces)
	}
	return verts, faces
}

func catmullClark(verts []geom.Vec3, faces [][]int) ([]geom.Vec3, [][]int) {
	nv := len(verts)
	facePts := make([]geom.Vec3, len(faces))
	for i, f := range faces {
		var c geom.Vec3
		for _, idx := range f {
			c = c.Add(verts[idx])
		}
		facePts[i] = c.Mul(1 / float64(len(f)))
	}

	edgeFaces := map[edgeKey][]int{}
	var edgeOrder []edgeKey
	for fi, f := range faces {
		for i := range f {
			k := newEdgeKey(f[i], f[(i+1)%len(f)])
			if _, ok := edgeFaces[k]; !ok {
				edgeOrder = append(edgeOrder, k)
			}
			edgeFaces[k] = append(edgeFaces[k], fi)
		}
	}

	edgeIndex := make(map[edgeKey]int, len(edgeOrder))
	edgePts := make([]geom.Vec3, len(edgeOrder))
	for i, k := range edgeOrder {
		mid := verts[k.a].Midpoint(verts[k.b])
		if fs := edgeFaces[k]; len(fs) == 2 {
			edgePts[i] = verts[k.a].Add(verts[k.b]).Add(facePts[fs[0]]).Add(facePts[fs[1]]).Mul(0.25)
		} else {
			edgePts[i] = mid
		}
		edgeIndex[k] = nv + len(faces) + i
	}

	// Per-vertex accumulators.
	faceSum := make([]geom.Vec3, nv)
	faceCount := make([]int, nv)
	midSum := make([]geom.Vec3, nv)
	edgeCount := make([]int, nv)
	boundarySum := make([]geom.Vec3, nv)
	boundaryCount := make([]int, nv)
	for fi, f := range faces {
		for _, idx := range f {
			faceSum[idx] = faceSum[idx].Add(facePts[fi])
			faceCount[idx]++
		}
	}
	for _, k := range edgeOrder {
		mid := verts[k.a].Midpoint(verts[k.b])
		for _, v := range []int{k.a, k.b} {
			midSum[v] = midSum[v].Add(mid)
			edgeCount[v]++
			if len(edgeFaces[k]) != 2 {
				boundarySum[v] = boundarySum[v].Add(mid)
				boundaryCount[v]++
			}
		}
	}

	out := make([]geom.Vec3, nv, nv+len(faces)+len(edgeOrder))
	for i, p := range verts {
		switch {
		case edgeCount[i] == 0:
			out[i] = p
		case boundaryCount[i] == 2:
			out[i] = p.Mul(0.5).Add(boundarySum[i].Mul(0.25))
		case boundaryCount[i] > 0:
			out[i] = p
		default:
			n := float64(faceCount[i])
			f := faceSum[i].Mul(1 / n)
			r := midSum[i].Mul(1 / float64(edgeCount[i]))
			out[i] = f.Add(r.Mul(2)).Add(p.Mul(n - 3)).Mul(1 / n)
		}
	}
	out = append(out, facePts...)
	out = append(out, edgePts...)

	newFaces := make([][]int, 0, 4*len(faces))
	for fi, f := range faces {
		fp := nv + fi
		for i := range f {
			prev := f[(i+len(f)-1)%len(f)]
			next := f[(i+1)%len(f)]
			newFaces = append(newFaces, []int{
				f[i],
				edgeIndex[newEdgeKey(f[i], next)],
				fp,
				edgeIndex[newEdgeKey(prev, f[i])],
			})
		}
	}
	return out, newFaces
}
