package trace

import (
	"math"
	"math/rand"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/scene"
)

// clampIndirect caps the largest channel of any indirect contribution.
const clampIndirect = 10

// rrDepth is the bounce after which Russian roulette may end a path.
const rrDepth = 3

// bounces counts path vertices per lobe against the render settings' limits.
type bounces struct {
	total, diffuse, glossy, transmission, volume int
}

// take records one bounce of kind l and reports whether the limits allow it.
func (b *bounces) take(l lobe, rs *scene.RenderSettings) bool {
	if b.total >= rs.MaxBounces {
		return false
	}
	switch l {
	case lobeDiffuse:
		if b.diffuse >= rs.DiffuseBounces {
			return false
		}
		b.diffuse++
	case lobeGlossy:
		if b.glossy >= rs.GlossyBounces {
			return false
		}
		b.glossy++
	case lobeTransmission:
		if b.transmission >= rs.TransmissionBounces {
			return false
		}
		b.transmission++
	}
	b.total++
	return true
}

// firstHit holds the albedo and normal of the camera ray's first surface, used to
// guide the denoiser.
type firstHit struct {
	albedo geom.RGB
	normal geom.Vec3
	ok     bool
}

func clampContribution(c geom.RGB, depth int) geom.RGB {
	if depth == 0 {
		return c
	}
	if m := c.Max(); m > clampIndirect {
		return c.Scale(clampIndirect / m)
	}
	return c
}

// radiance traces one camera path. Area lights are invisible to camera rays and
// are counted on hits only after glossy or transmission bounces; diffuse vertices
// sample them directly.
func (w *world) radiance(r ray, rng *rand.Rand) (geom.RGB, firstHit) {
	var (
		L           geom.RGB
		first       firstHit
		b           bounces
		countLights bool
	)
	beta := white
	rs := &w.rs
	for depth := 0; ; depth++ {
		h, ok := w.root.nearest(r, rayEpsilon, math.Inf(1))
		tHit := math.Inf(1)
		if ok {
			tHit = h.t
		}

		if w.volume != nil && w.volume.Density > 0 {
			if d := -math.Log(1-rng.Float64()) / w.volume.Density; d < tHit {
				p := r.at(d)
				beta = beta.Mul(w.volume.Color)
				L = L.Add(clampContribution(beta.Mul(w.directVolume(p, rng)), depth))
				if b.volume >= rs.VolumeBounces || b.total >= rs.MaxBounces {
					break
				}
				b.volume++
				b.total++
				r = ray{o: p, d: uniformSphere(rng)}
				countLights = false
				continue
			}
		}

		if countLights {
			if le, lit := w.hitLight(r, tHit); lit {
				L = L.Add(clampContribution(beta.Mul(le), depth))
			}
		}
		if !ok {
			L = L.Add(clampContribution(beta.Mul(w.env), depth))
			break
		}

		surf := pick(h.prim.surf, rng)
		if surf == nil || surf.Lobe == material.LobeNone {
			break
		}
		h.n = bumpNormal(surf, h.p, h.n)
		if depth == 0 {
			first = firstHit{albedo: surf.Albedo(), normal: h.n, ok: true}
		}
		if !surf.Emission.IsBlack() {
			L = L.Add(clampContribution(beta.Mul(surf.Emission), depth))
		}
		if surf.Lobe == material.LobeEmission {
			break
		}

		s, ok := sampleBSDF(surf, r.d, &h, rng)
		if !ok {
			break
		}
		if s.lobe == lobeDiffuse {
			direct := w.direct(h.p, h.n, h.ng, rng)
			L = L.Add(clampContribution(beta.Mul(s.albedo).Mul(direct).Scale(1/math.Pi), depth))
		}
		if !b.take(s.lobe, rs) {
			break
		}
		beta = beta.Mul(s.weight)
		countLights = s.lobe != lobeDiffuse

		if depth >= rrDepth {
			q := math.Min(0.95, beta.Max())
			if q <= 0 || rng.Float64() >= q {
				break
			}
			beta = beta.Scale(1 / q)
		}
		r = ray{o: offset(h.p, h.ng, s.dir), d: s.dir}
	}
	return L, first
}
