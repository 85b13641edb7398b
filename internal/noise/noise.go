// Package noise provides the hash-lattice value noise used by procedural textures.
package noise

import (
	"math"

	"fractal-bench/internal/geom"
)

// Texture is a fractal noise texture. Scale multiplies the input coordinates,
// Detail is the number of extra octaves (fractional values blend the last one),
// Roughness is the per-octave amplitude gain and Lacunarity the per-octave frequency gain.
type Texture struct {
	Scale      float64
	Detail     float64
	Roughness  float64
	Lacunarity float64
	Seed       int32
}

// DefaultTexture returns the default noise texture settings.
func DefaultTexture() Texture {
	return Texture{
		Scale:      5,
		Detail:     2,
		Roughness:  0.5,
		Lacunarity: 2,
	}
}

// maxOctaves caps Detail so a bad value cannot stall shading.
const maxOctaves = 16

// Fac returns the texture value at p in [0,1].
func (t Texture) Fac(p geom.Vec3) float64 {
	detail := t.Detail
	if detail < 0 {
		detail = 0
	}
	if detail > maxOctaves-1 {
		detail = maxOctaves - 1
	}
	gain := t.Roughness
	if gain <= 0 {
		gain = 0.5
	}
	lac := t.Lacunarity
	if lac <= 0 {
		lac = 2
	}
	p = p.Mul(t.Scale)

	whole := int(detail)
	var sum, maxAmp float64
	amp, freq := 1.0, 1.0
	for i := 0; i <= whole; i++ {
		sum += ValueNoise3D(p.Mul(freq), t.Seed+int32(i)) * amp
		maxAmp += amp
		amp *= gain
		freq *= lac
	}
	if rem := detail - float64(whole); rem > 0 {
		sum += ValueNoise3D(p.Mul(freq), t.Seed+int32(whole+1)) * amp * rem
		maxAmp += amp * rem
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// gradientStep is the finite-difference step of Gradient in texture space.
const gradientStep = 1e-3

// Gradient returns the central-difference gradient of Fac at p.
func (t Texture) Gradient(p geom.Vec3) geom.Vec3 {
	h := gradientStep
	dx := t.Fac(p.Add(geom.V(h, 0, 0))) - t.Fac(p.Sub(geom.V(h, 0, 0)))
	dy := t.Fac(p.Add(geom.V(0, h, 0))) - t.Fac(p.Sub(geom.V(0, h, 0)))
	dz := t.Fac(p.Add(geom.V(0, 0, h))) - t.Fac(p.Sub(geom.V(0, 0, h)))
	return geom.V(dx, dy, dz).Mul(1 / (2 * h))
}

// ValueNoise3D is smooth value noise in [0,1] over an integer lattice with cubic easing.
func ValueNoise3D(p geom.Vec3, seed int32) float64 {
	x0 := int32(math.Floor(p.X))
	y0 := int32(math.Floor(p.Y))
	z0 := int32(math.Floor(p.Z))
	sx := smoothStep(p.X - float64(x0))
	sy := smoothStep(p.Y - float64(y0))
	sz := smoothStep(p.Z - float64(z0))

	c000 := hash3D(x0, y0, z0, seed)
	c100 := hash3D(x0+1, y0, z0, seed)
	c010 := hash3D(x0, y0+1, z0, seed)
	c110 := hash3D(x0+1, y0+1, z0, seed)
	c001 := hash3D(x0, y0, z0+1, seed)
	c101 := hash3D(x0+1, y0, z0+1, seed)
	c011 := hash3D(x0, y0+1, z0+1, seed)
	c111 := hash3D(x0+1, y0+1, z0+1, seed)

	x00 := lerp(c000, c100, sx)
	x10 := lerp(c010, c110, sx)
	x01 := lerp(c001, c101, sx)
	x11 := lerp(c011, c111, sx)
	return lerp(lerp(x00, x10, sy), lerp(x01, x11, sy), sz)
}

// hash3D maps integer lattice coordinates to a deterministic pseudo-random value in [0,1].
func hash3D(x, y, z, seed int32) float64 {
	n := x*374761393 + y*668265263 + z*1440662683 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	const invMaxInt = 1.0 / 2147483647.0
	return float64(n&0x7fffffff) * invMaxInt
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
