// Package shade holds the GL-free half of the raster engine: the mapping from Z-up
// scene space to Y-up raster space, model matrices, and the directional light rig
// shared by the lit shader and CPU-shaded triangles.
package shade

import (
	"github.com/chewxy/math32"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/scene"
)

// Vec is a raster-space vector or color.
type Vec [3]float32

func (a Vec) add(b Vec) Vec       { return Vec{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func (a Vec) scale(s float32) Vec { return Vec{a[0] * s, a[1] * s, a[2] * s} }
func (a Vec) mul(b Vec) Vec       { return Vec{a[0] * b[0], a[1] * b[1], a[2] * b[2]} }
func (a Vec) dot(b Vec) float32   { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func (a Vec) sub(b Vec) Vec       { return Vec{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

// Norm returns a unit vector, or a unchanged when it has no length.
func (a Vec) Norm() Vec {
	l := math32.Sqrt(a.dot(a))
	if l == 0 {
		return a
	}
	return a.scale(1 / l)
}

// Point maps a scene-space point to raster space: (x, y, z) -> (x, z, -y).
func Point(v geom.Vec3) Vec {
	return Vec{float32(v.X), float32(v.Z), float32(-v.Y)}
}

// Color converts a linear color.
func Color(c geom.RGB) Vec {
	return Vec{float32(c.R), float32(c.G), float32(c.B)}
}

// Model returns the column-major raster model matrix of an object with scene-space
// rotation-scale m at loc. Meshes must already be in raster space.
func Model(m geom.Mat3, loc geom.Vec3) [16]float32 {
	// Raster axis i is sign[i] times scene axis perm[i]; r = C·m·C⁻¹.
	perm := [3]int{0, 2, 1}
	sign := [3]float64{1, 1, -1}
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = sign[i] * sign[j] * m[perm[i]][perm[j]]
		}
	}
	t := Point(loc)
	return [16]float32{
		float32(r[0][0]), float32(r[1][0]), float32(r[2][0]), 0,
		float32(r[0][1]), float32(r[1][1]), float32(r[2][1]), 0,
		float32(r[0][2]), float32(r[1][2]), float32(r[2][2]), 0,
		t[0], t[1], t[2], 1,
	}
}

// Transform applies a column-major model matrix to p.
func Transform(m [16]float32, p Vec) Vec {
	return Vec{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// Lighting defaults for the fixed-function look.
var (
	DefaultAmbient = Vec{0.2, 0.22, 0.26}
	DefaultLight   = Vec{1.0, 0.98, 0.95}
)

const (
	DefaultIntensity        = float32(0.75)
	DefaultSpecularPower    = float32(48)
	DefaultSpecularStrength = float32(0.35)
)

// Rig is one directional light plus ambient, evaluated Blinn-Phong.
type Rig struct {
	ViewPos   Vec
	LightDir  Vec
	Ambient   Vec
	Light     Vec
	Intensity float32

	SpecularPower    float32
	SpecularStrength float32
	Background       Vec
}

// NewRig derives a rig from the scene: the light with the most energy shines from
// its position toward the centre of the mesh objects. Scenes without lights get a
// light from above.
func NewRig(s *scene.Scene, viewPos geom.Vec3) Rig {
	env := material.ResolveWorld(s.World)
	r := Rig{
		ViewPos:          Point(viewPos),
		LightDir:         Vec{0.5, 1, 0.5}.Norm(),
		Ambient:          DefaultAmbient.add(Color(env.Background)).scale(0.5),
		Light:            DefaultLight,
		Intensity:        DefaultIntensity,
		SpecularPower:    DefaultSpecularPower,
		SpecularStrength: DefaultSpecularStrength,
		Background:       Color(env.Background),
	}

	box := geom.EmptyBox()
	for _, o := range s.ObjectsOf(scene.TypeMesh) {
		box = box.Extend(o.Location)
	}
	center := geom.Vec3{}
	if box.Min.X <= box.Max.X {
		center = box.Center()
	}

	var best *scene.Object
	for _, o := range s.ObjectsOf(scene.TypeLight) {
		if o.Light == nil || o.Light.Energy <= 0 {
			continue
		}
		if best == nil || o.Light.Energy > best.Light.Energy {
			best = o
		}
	}
	if best != nil {
		if d := Point(best.Location).sub(Point(center)); d.dot(d) > 0 {
			r.LightDir = d.Norm()
		}
		r.Light = Color(best.Light.Color)
	}
	return r
}

// Shade returns the lit color of a surface point with albedo, matching the lit
// shader. Faces are two-sided: n is flipped toward the viewer.
func (r Rig) Shade(albedo, p, n Vec) Vec {
	n = n.Norm()
	v := r.ViewPos.sub(p).Norm()
	if n.dot(v) < 0 {
		n = n.scale(-1)
	}
	l := r.LightDir
	ndl := math32.Max(n.dot(l), 0)
	out := r.Ambient.mul(albedo).add(albedo.mul(r.Light).scale(ndl * r.Intensity))
	if ndl > 0 {
		h := l.add(v).Norm()
		spec := math32.Pow(math32.Max(n.dot(h), 0), r.SpecularPower) * r.SpecularStrength
		out = out.add(r.Light.scale(spec))
	}
	return out
}

// Albedo returns the flat color a surface is drawn with and whether it is emissive,
// in which case it is drawn unlit.
func Albedo(s *material.Surface) (Vec, bool) {
	if s.Emissive() {
		c := Color(s.EmittedRadiance())
		if m := math32.Max(c[0], math32.Max(c[1], c[2])); m > 1 {
			c = c.scale(1 / m)
		}
		return c, true
	}
	return Color(s.Albedo()), false
}

// RGBA8 clamps c to an 8-bit color.
func RGBA8(c Vec) [4]uint8 {
	var out [4]uint8
	for i, v := range c {
		out[i] = uint8(math32.Round(math32.Min(math32.Max(v, 0), 1) * 255))
	}
	out[3] = 255
	return out
}
