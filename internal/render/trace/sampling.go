package trace

import (
	"math"
	"math/rand"

	"fractal-bench/internal/geom"
)

func uniformSphere(rng *rand.Rand) geom.Vec3 {
	z := 1 - 2*rng.Float64()
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * rng.Float64()
	return geom.V(r*math.Cos(phi), r*math.Sin(phi), z)
}

// concentricDisk maps two uniforms onto the unit disk.
func concentricDisk(rng *rand.Rand) (float64, float64) {
	a := 2*rng.Float64() - 1
	b := 2*rng.Float64() - 1
	if a == 0 && b == 0 {
		return 0, 0
	}
	var r, phi float64
	if math.Abs(a) > math.Abs(b) {
		r, phi = a, math.Pi/4*(b/a)
	} else {
		r, phi = b, math.Pi/2-math.Pi/4*(a/b)
	}
	return r * math.Cos(phi), r * math.Sin(phi)
}

// basis returns two unit vectors orthogonal to n and to each other.
func basis(n geom.Vec3) (geom.Vec3, geom.Vec3) {
	var t geom.Vec3
	if math.Abs(n.X) > 0.9 {
		t = geom.V(0, 1, 0)
	} else {
		t = geom.V(1, 0, 0)
	}
	u := t.Cross(n).Norm()
	return u, n.Cross(u)
}

// cosineHemisphere samples a direction around n with pdf cos/π.
func cosineHemisphere(n geom.Vec3, rng *rand.Rand) geom.Vec3 {
	x, y := concentricDisk(rng)
	z := math.Sqrt(math.Max(0, 1-x*x-y*y))
	u, v := basis(n)
	return u.Mul(x).Add(v.Mul(y)).Add(n.Mul(z)).Norm()
}

func reflect(d, n geom.Vec3) geom.Vec3 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

// refract bends d through a surface with normal n facing d's origin side and
// relative index eta = n_incident / n_transmitted.
func refract(d, n geom.Vec3, eta float64) (geom.Vec3, bool) {
	cosi := -d.Dot(n)
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return geom.Vec3{}, false
	}
	return d.Mul(eta).Add(n.Mul(eta*cosi - math.Sqrt(k))).Norm(), true
}

// fresnelDielectric is the unpolarized Fresnel reflectance for cosine cosi.
func fresnelDielectric(cosi, eta float64) float64 {
	sint2 := eta * eta * (1 - cosi*cosi)
	if sint2 >= 1 {
		return 1
	}
	cost := math.Sqrt(1 - sint2)
	rs := (eta*cosi - cost) / (eta*cosi + cost)
	rp := (cosi - eta*cost) / (cosi + eta*cost)
	return (rs*rs + rp*rp) / 2
}

func schlick(f0, cos float64) float64 {
	m := 1 - cos
	return f0 + (1-f0)*m*m*m*m*m
}

// fuzz perturbs a mirror direction by roughness, kept on n's side.
func fuzz(dir, n geom.Vec3, roughness float64, rng *rand.Rand) (geom.Vec3, bool) {
	if roughness <= 0 {
		return dir, true
	}
	a := roughness * roughness
	out := dir.Add(uniformSphere(rng).Mul(a)).Norm()
	if out.Dot(n) <= 0 {
		return geom.Vec3{}, false
	}
	return out, true
}
