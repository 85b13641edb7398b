package trace

import (
	"math"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
)

type ray struct {
	o, d geom.Vec3
}

func (r ray) at(t float64) geom.Vec3 { return r.o.Add(r.d.Mul(t)) }

type primKind uint8

const (
	primTriangle primKind = iota
	primSphere
)

// prim is one traceable primitive: a triangle (a, edges ab and ac) or a sphere.
type prim struct {
	kind primKind

	a, ab, ac  geom.Vec3
	na, nb, nc geom.Vec3
	smooth     bool

	center geom.Vec3
	radius float64

	surf *material.Surface
	box  geom.Box
}

// hit is a ray-surface intersection. N is the shading normal and Ng the geometric
// normal, both facing the incoming ray; Front reports whether the ray hit the
// outward side.
type hit struct {
	t     float64
	p     geom.Vec3
	n, ng geom.Vec3
	front bool
	prim  *prim
}

func newTriangle(a, b, c geom.Vec3, surf *material.Surface) *prim {
	p := &prim{kind: primTriangle, a: a, ab: b.Sub(a), ac: c.Sub(a), surf: surf}
	p.box = geom.EmptyBox().Extend(a).Extend(b).Extend(c)
	return p
}

func newSphere(center geom.Vec3, radius float64, surf *material.Surface) *prim {
	r := geom.V(radius, radius, radius)
	return &prim{
		kind:   primSphere,
		center: center,
		radius: radius,
		surf:   surf,
		box:    geom.Box{Min: center.Sub(r), Max: center.Add(r)},
	}
}

func (p *prim) intersect(r ray, tMin, tMax float64) (hit, bool) {
	if p.kind == primSphere {
		return p.intersectSphere(r, tMin, tMax)
	}
	return p.intersectTriangle(r, tMin, tMax)
}

// intersectTriangle is the Möller-Trumbore test.
func (p *prim) intersectTriangle(r ray, tMin, tMax float64) (hit, bool) {
	pv := r.d.Cross(p.ac)
	det := p.ab.Dot(pv)
	if math.Abs(det) < 1e-14 {
		return hit{}, false
	}
	inv := 1 / det
	tv := r.o.Sub(p.a)
	u := tv.Dot(pv) * inv
	if u < 0 || u > 1 {
		return hit{}, false
	}
	qv := tv.Cross(p.ab)
	v := r.d.Dot(qv) * inv
	if v < 0 || u+v > 1 {
		return hit{}, false
	}
	t := p.ac.Dot(qv) * inv
	if t <= tMin || t >= tMax {
		return hit{}, false
	}
	ng := p.ab.Cross(p.ac).Norm()
	n := ng
	if p.smooth {
		n = p.na.Mul(1 - u - v).Add(p.nb.Mul(u)).Add(p.nc.Mul(v)).Norm()
	}
	return orient(hit{t: t, p: r.at(t), n: n, ng: ng, prim: p}, r.d), true
}

func (p *prim) intersectSphere(r ray, tMin, tMax float64) (hit, bool) {
	oc := r.o.Sub(p.center)
	b := oc.Dot(r.d)
	c := oc.Dot(oc) - p.radius*p.radius
	disc := b*b - c
	if disc < 0 {
		return hit{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t <= tMin || t >= tMax {
		t = -b + sq
		if t <= tMin || t >= tMax {
			return hit{}, false
		}
	}
	pt := r.at(t)
	n := pt.Sub(p.center).Mul(1 / p.radius)
	return orient(hit{t: t, p: pt, n: n, ng: n, prim: p}, r.d), true
}

// orient flips normals to face against d and records which side was hit.
func orient(h hit, d geom.Vec3) hit {
	h.front = h.ng.Dot(d) < 0
	if !h.front {
		h.ng = h.ng.Neg()
		h.n = h.n.Neg()
	}
	return h
}
