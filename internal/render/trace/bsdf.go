package trace

import (
	"math/rand"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
)

type lobe uint8

const (
	lobeDiffuse lobe = iota
	lobeGlossy
	lobeTransmission
)

// bsdfSample is one sampled continuation. For diffuse samples albedo is the color
// used for next-event estimation; weight already includes it.
type bsdfSample struct {
	dir    geom.Vec3
	weight geom.RGB
	lobe   lobe
	albedo geom.RGB
}

var white = geom.RGB{R: 1, G: 1, B: 1}

// pick resolves a mix surface to one of its leaves, chosen by the mix factor.
func pick(s *material.Surface, rng *rand.Rand) *material.Surface {
	for depth := 0; s != nil && s.Lobe == material.LobeMix && depth < 16; depth++ {
		if rng.Float64() < s.Fac {
			s = s.B
		} else {
			s = s.A
		}
	}
	return s
}

// bumpNormal perturbs n with the surface's noise bump at p.
func bumpNormal(s *material.Surface, p, n geom.Vec3) geom.Vec3 {
	if s.Bump == nil || s.Bump.Strength == 0 {
		return n
	}
	g := s.Bump.Noise.Gradient(p)
	tangential := g.Sub(n.Mul(g.Dot(n)))
	dist := s.Bump.Distance
	if dist == 0 {
		dist = 1
	}
	out := n.Sub(tangential.Mul(s.Bump.Strength * dist * 0.1)).Norm()
	if out.Dot(n) <= 0 {
		return n
	}
	return out
}

// sampleBSDF samples a continuation for a ray arriving along d at h on leaf surface s.
func sampleBSDF(s *material.Surface, d geom.Vec3, h *hit, rng *rand.Rand) (bsdfSample, bool) {
	n := h.n
	switch s.Lobe {
	case material.LobeGlass:
		return sampleGlass(s.BaseColor, s.IOR, s.Roughness, d, h, rng)
	case material.LobePrincipled:
	default:
		return bsdfSample{}, false
	}

	if s.Metallic > 0 && rng.Float64() < s.Metallic {
		dir, ok := fuzz(reflect(d, n), h.ng, s.Roughness, rng)
		if !ok {
			return bsdfSample{}, false
		}
		return bsdfSample{dir: dir, weight: s.BaseColor, lobe: lobeGlossy}, true
	}
	if s.Transmission > 0 && rng.Float64() < s.Transmission {
		ior := s.IOR
		if ior <= 0 {
			ior = 1.5
		}
		return sampleGlass(s.BaseColor, ior, s.Roughness, d, h, rng)
	}

	level := s.SpecularIORLevel
	f0 := 0.08 * level
	if level == 0 {
		f0 = 0
	}
	if f0 > 0 && rng.Float64() < schlick(f0, -d.Dot(n)) {
		dir, ok := fuzz(reflect(d, n), h.ng, s.Roughness, rng)
		if !ok {
			return bsdfSample{}, false
		}
		return bsdfSample{dir: dir, weight: white, lobe: lobeGlossy}, true
	}

	albedo := s.BaseColor
	if s.Subsurface > 0 {
		albedo = albedo.Scale(1 - s.Subsurface*0.5).Add(albedo.Mul(s.SubsurfaceRadius).Scale(s.Subsurface * 0.5))
	}
	dir := cosineHemisphere(n, rng)
	if dir.Dot(h.ng) <= 0 {
		return bsdfSample{}, false
	}
	return bsdfSample{dir: dir, weight: albedo, lobe: lobeDiffuse, albedo: albedo}, true
}

// sampleGlass chooses reflection or refraction by Fresnel; both are tinted by color.
func sampleGlass(color geom.RGB, ior, roughness float64, d geom.Vec3, h *hit, rng *rand.Rand) (bsdfSample, bool) {
	if ior <= 0 {
		ior = 1.45
	}
	eta := 1 / ior
	if !h.front {
		eta = ior
	}
	n := h.n
	cosi := -d.Dot(n)
	if cosi < 0 {
		cosi = 0
	}
	if rng.Float64() < fresnelDielectric(cosi, eta) {
		dir, ok := fuzz(reflect(d, n), h.ng, roughness, rng)
		if !ok {
			return bsdfSample{}, false
		}
		return bsdfSample{dir: dir, weight: color, lobe: lobeGlossy}, true
	}
	t, ok := refract(d, n, eta)
	if !ok {
		return bsdfSample{dir: reflect(d, n), weight: color, lobe: lobeGlossy}, true
	}
	t, ok = fuzz(t, h.ng.Neg(), roughness, rng)
	if !ok {
		return bsdfSample{}, false
	}
	return bsdfSample{dir: t, weight: color, lobe: lobeTransmission}, true
}

// shadowTint is how much light a surface lets through a shadow ray. Glass passes its
// tint; everything else blocks.
func shadowTint(s *material.Surface) (geom.RGB, bool) {
	switch {
	case s == nil:
		return geom.RGB{}, false
	case s.Lobe == material.LobeGlass:
		return s.BaseColor.Scale(0.9), true
	case s.Lobe == material.LobeMix:
		a, okA := shadowTint(s.A)
		b, okB := shadowTint(s.B)
		if !okA && !okB {
			return geom.RGB{}, false
		}
		return a.Scale(1 - s.Fac).Add(b.Scale(s.Fac)), true
	case s.Lobe == material.LobePrincipled && s.Transmission > 0:
		return s.BaseColor.Scale(0.9 * s.Transmission), true
	}
	return geom.RGB{}, false
}
