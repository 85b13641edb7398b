package trace

import (
	"math"
	"math/rand"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/scene"
)

// light is an area or point light in scene space. Area lights are one-sided
// rectangles centered at pos with half-edge vectors u and v, emitting along normal.
type light struct {
	kind   scene.LightKind
	pos    geom.Vec3
	u, v   geom.Vec3
	normal geom.Vec3
	area   float64
	// radiance for area lights; intensity (W/sr) for point lights.
	radiance  geom.RGB
	intensity geom.RGB
	radius    float64
}

func newLight(s *scene.Scene, o *scene.Object) light {
	l := o.Light
	power := l.Color.Scale(l.Energy)
	if l.Kind == scene.LightArea {
		rot := s.Rotation(o)
		size := l.Size
		if size <= 0 {
			size = 1
		}
		u := rot.Column(0).Mul(size / 2 * o.Scale.X)
		v := rot.Column(1).Mul(size / 2 * o.Scale.Y)
		area := 4 * u.Len() * v.Len()
		return light{
			kind:     scene.LightArea,
			pos:      o.Location,
			u:        u,
			v:        v,
			normal:   rot.Column(2).Neg(),
			area:     area,
			radiance: power.Scale(1 / (math.Pi * area)),
		}
	}
	return light{
		kind:      scene.LightPoint,
		pos:       o.Location,
		intensity: power.Scale(1 / (4 * math.Pi)),
		radius:    l.ShadowSoftSize,
	}
}

// sample picks a point on the light as seen from p. It returns the direction and
// distance to it and the incident radiance already divided by the sampling pdf.
func (l *light) sample(p geom.Vec3, rng *rand.Rand) (wi geom.Vec3, dist float64, li geom.RGB, ok bool) {
	switch l.kind {
	case scene.LightArea:
		q := l.pos.Add(l.u.Mul(2*rng.Float64() - 1)).Add(l.v.Mul(2*rng.Float64() - 1))
		d := q.Sub(p)
		dist = d.Len()
		if dist < 1e-9 {
			return geom.Vec3{}, 0, geom.RGB{}, false
		}
		wi = d.Mul(1 / dist)
		cosL := -wi.Dot(l.normal)
		if cosL <= 0 {
			return geom.Vec3{}, 0, geom.RGB{}, false
		}
		return wi, dist, l.radiance.Scale(cosL * l.area / (dist * dist)), true
	default:
		q := l.pos
		if l.radius > 0 {
			q = q.Add(uniformSphere(rng).Mul(l.radius))
		}
		d := q.Sub(p)
		dist = d.Len()
		if dist < 1e-9 {
			return geom.Vec3{}, 0, geom.RGB{}, false
		}
		return d.Mul(1 / dist), dist, l.intensity.Scale(1 / (dist * dist)), true
	}
}

// intersect reports where r meets the emitting face of an area light.
func (l *light) intersect(r ray, tMax float64) (float64, bool) {
	if l.kind != scene.LightArea {
		return 0, false
	}
	denom := r.d.Dot(l.normal)
	if denom >= 0 {
		return 0, false
	}
	t := l.pos.Sub(r.o).Dot(l.normal) / denom
	if t <= 1e-6 || t >= tMax {
		return 0, false
	}
	rel := r.at(t).Sub(l.pos)
	if math.Abs(rel.Dot(l.u)) > l.u.Dot(l.u) || math.Abs(rel.Dot(l.v)) > l.v.Dot(l.v) {
		return 0, false
	}
	return t, true
}
