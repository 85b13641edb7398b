package trace

import (
	"fmt"
	"math"
	"math/rand"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/scene"
)

// world is a scene compiled for tracing.
type world struct {
	root   *node
	prims  int
	lights []light
	env    geom.RGB
	volume *material.Volume
	rs     scene.RenderSettings
}

// compile flattens every mesh into primitives in scene space and collects lights.
// Unmodified UV spheres with uniform scale become analytic spheres.
func compile(s *scene.Scene) (*world, error) {
	w := &world{rs: s.Render}
	env := material.ResolveWorld(s.World)
	w.env = env.Background
	w.volume = env.Volume

	surfaces := map[string]*material.Surface{}
	surfaceOf := func(o *scene.Object) *material.Surface {
		key := ""
		if len(o.Materials) > 0 {
			key = o.Materials[0]
		}
		if sf, ok := surfaces[key]; ok {
			return sf
		}
		sf := s.Surface(o)
		surfaces[key] = sf
		return sf
	}

	var prims []*prim
	for _, o := range s.Objects {
		switch o.Type {
		case scene.TypeLight:
			if o.Light != nil && o.Light.Energy > 0 {
				w.lights = append(w.lights, newLight(s, o))
			}
		case scene.TypeMesh:
			surf := surfaceOf(o)
			if sp, ok := analyticSphere(o, surf); ok {
				prims = append(prims, sp)
				continue
			}
			ps, err := meshPrims(s, o, surf)
			if err != nil {
				return nil, err
			}
			prims = append(prims, ps...)
		}
	}
	w.prims = len(prims)
	w.root = buildBVH(prims)
	return w, nil
}

func analyticSphere(o *scene.Object, surf *material.Surface) (*prim, bool) {
	m := o.Mesh
	if m.Primitive != scene.PrimitiveUVSphere || len(o.Modifiers) > 0 {
		return nil, false
	}
	sc := o.Scale
	if !geom.AlmostEqual(sc.X, sc.Y, 1e-9) || !geom.AlmostEqual(sc.X, sc.Z, 1e-9) {
		return nil, false
	}
	return newSphere(o.Location, m.Radius*math.Abs(sc.X), surf), true
}

func meshPrims(s *scene.Scene, o *scene.Object, surf *material.Surface) ([]*prim, error) {
	verts, faces, err := s.Evaluated(o)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	world := make([]geom.Vec3, len(verts))
	for i, v := range verts {
		world[i] = s.ToWorld(o, v)
	}
	tris := scene.Triangulate(faces)
	var normals []geom.Vec3
	if o.Mesh.Smooth {
		normals = scene.VertexNormals(world, tris)
	}
	out := make([]*prim, 0, len(tris))
	for _, t := range tris {
		p := newTriangle(world[t[0]], world[t[1]], world[t[2]], surf)
		if p.ab.Cross(p.ac).Len() == 0 {
			continue
		}
		if normals != nil {
			p.smooth = true
			p.na, p.nb, p.nc = normals[t[0]], normals[t[1]], normals[t[2]]
		}
		out = append(out, p)
	}
	return out, nil
}

// transmittance is how much light survives from p along wi over dist: glass tints,
// opaque surfaces block, the world volume attenuates.
func (w *world) transmittance(p, wi geom.Vec3, dist float64) geom.RGB {
	t := white
	if w.volume != nil && w.volume.Density > 0 {
		t = t.Scale(math.Exp(-w.volume.Density * dist))
	}
	r := ray{o: p, d: wi}
	remaining := dist
	for i := 0; i < 16; i++ {
		h, ok := w.root.nearest(r, rayEpsilon, remaining-rayEpsilon)
		if !ok {
			return t
		}
		tint, pass := shadowTint(h.prim.surf)
		if !pass {
			return geom.RGB{}
		}
		t = t.Mul(tint)
		if t.IsBlack() {
			return t
		}
		r.o = h.p
		remaining -= h.t
	}
	return geom.RGB{}
}

// direct estimates light arriving at p over the hemisphere of n from one randomly
// chosen light, already weighted by the light count.
func (w *world) direct(p, n, ng geom.Vec3, rng *rand.Rand) geom.RGB {
	if len(w.lights) == 0 {
		return geom.RGB{}
	}
	l := &w.lights[rng.Intn(len(w.lights))]
	wi, dist, li, ok := l.sample(p, rng)
	if !ok {
		return geom.RGB{}
	}
	cos := n.Dot(wi)
	if cos <= 0 {
		return geom.RGB{}
	}
	tr := w.transmittance(offset(p, ng, wi), wi, dist)
	if tr.IsBlack() {
		return geom.RGB{}
	}
	return li.Mul(tr).Scale(cos * float64(len(w.lights)))
}

// directVolume is direct for an isotropic scattering point.
func (w *world) directVolume(p geom.Vec3, rng *rand.Rand) geom.RGB {
	if len(w.lights) == 0 {
		return geom.RGB{}
	}
	l := &w.lights[rng.Intn(len(w.lights))]
	wi, dist, li, ok := l.sample(p, rng)
	if !ok {
		return geom.RGB{}
	}
	tr := w.transmittance(p, wi, dist)
	return li.Mul(tr).Scale(float64(len(w.lights)) / (4 * math.Pi))
}

// hitLight returns the emission of the nearest area light r meets before tMax.
func (w *world) hitLight(r ray, tMax float64) (geom.RGB, bool) {
	best := tMax
	var le geom.RGB
	found := false
	for i := range w.lights {
		if t, ok := w.lights[i].intersect(r, best); ok {
			best = t
			le = w.lights[i].radiance
			found = true
		}
	}
	return le, found
}

const rayEpsilon = 1e-5

// offset moves p off the surface toward the side dir leaves on.
func offset(p, ng, dir geom.Vec3) geom.Vec3 {
	const eps = 1e-4
	if dir.Dot(ng) < 0 {
		return p.Sub(ng.Mul(eps))
	}
	return p.Add(ng.Mul(eps))
}
