package geom

import "math"

// Vec3 is a point or direction in scene space. Scene space is right-handed with Z up,
// the same convention the render scripts place objects in.
type Vec3 struct {
	X, Y, Z float64
}

// V returns a Vec3 from its components.
func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Mul(s float64) Vec3   { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) MulVec(b Vec3) Vec3   { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Neg() Vec3            { return Vec3{-a.X, -a.Y, -a.Z} }
func (a Vec3) Len() float64         { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Midpoint(b Vec3) Vec3 { return Vec3{(a.X + b.X) / 2, (a.Y + b.Y) / 2, (a.Z + b.Z) / 2} }

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Norm returns a unit-length version of the vector.
// If the vector is zero, it returns the input unchanged.
func (a Vec3) Norm() Vec3 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Axis returns component i (0=X, 1=Y, 2=Z).
func (a Vec3) Axis(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// MaxComponent returns the largest of X, Y, Z.
func (a Vec3) MaxComponent() float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// EmptyBox returns a box that contains nothing; Extend grows it.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{Min: Vec3{inf, inf, inf}, Max: Vec3{-inf, -inf, -inf}}
}

// CubeBox returns the box of an axis-aligned cube with the given center and edge length.
func CubeBox(center Vec3, size float64) Box {
	h := size / 2
	return Box{Min: center.Sub(Vec3{h, h, h}), Max: center.Add(Vec3{h, h, h})}
}

// Extend returns the box grown to contain p.
func (b Box) Extend(p Vec3) Box {
	return Box{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	return Box{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the midpoint of the box.
func (b Box) Center() Vec3 { return b.Min.Midpoint(b.Max) }

// Size returns the box extent per axis.
func (b Box) Size() Vec3 { return b.Max.Sub(b.Min) }

// Contains reports whether p lies inside the box, allowing eps of slack on each face.
func (b Box) Contains(p Vec3, eps float64) bool {
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps &&
		p.Z >= b.Min.Z-eps && p.Z <= b.Max.Z+eps
}

// ContainsBox reports whether o lies entirely inside b, allowing eps of slack.
func (b Box) ContainsBox(o Box, eps float64) bool {
	return b.Contains(o.Min, eps) && b.Contains(o.Max, eps)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Euler is an XYZ Euler rotation in radians, applied X first, then Y, then Z.
type Euler struct {
	X, Y, Z float64
}

// Mat3 is a row-major 3x3 rotation/scale matrix.
type Mat3 [3][3]float64

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns m·o.
func (m Mat3) Mul(o Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return r
}

// Transpose returns mᵀ, which is the inverse for pure rotations.
func (m Mat3) Transpose() Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Column returns column j as a vector.
func (m Mat3) Column(j int) Vec3 {
	return Vec3{m[0][j], m[1][j], m[2][j]}
}

// Matrix returns the rotation matrix R = Rz·Ry·Rx.
func (e Euler) Matrix() Mat3 {
	cx, sx := math.Cos(e.X), math.Sin(e.X)
	cy, sy := math.Cos(e.Y), math.Sin(e.Y)
	cz, sz := math.Cos(e.Z), math.Sin(e.Z)
	rx := Mat3{{1, 0, 0}, {0, cx, -sx}, {0, sx, cx}}
	ry := Mat3{{cy, 0, sy}, {0, 1, 0}, {-sy, 0, cy}}
	rz := Mat3{{cz, -sz, 0}, {sz, cz, 0}, {0, 0, 1}}
	return rz.Mul(ry).Mul(rx)
}

// ScaleMatrix returns a diagonal scale matrix.
func ScaleMatrix(s Vec3) Mat3 {
	return Mat3{{s.X, 0, 0}, {0, s.Y, 0}, {0, 0, s.Z}}
}

// LookAtEuler returns the Euler rotation that points an object's -Z axis from source
// toward target. Kept formula-for-formula with the light aiming used by the benchmark:
// rot_x = atan2(-dz, dist_xy) + π/2, rot_z = atan2(dy, dx) - π/2.
func LookAtEuler(source, target Vec3) Euler {
	dx := target.X - source.X
	dy := target.Y - source.Y
	dz := target.Z - source.Z
	distXY := math.Sqrt(dx*dx + dy*dy)
	rotX := math.Atan2(-dz, distXY)
	rotZ := math.Atan2(dy, dx) - math.Pi/2
	return Euler{X: rotX + math.Pi/2, Y: 0, Z: rotZ}
}

// TrackTo returns the rotation matrix whose -Z column points from source to target and
// whose +Y column is as close as possible to world up (track axis -Z, up axis Y).
func TrackTo(source, target Vec3) Mat3 {
	forward := target.Sub(source).Norm()
	if forward.Len() == 0 {
		return Identity3()
	}
	up := Vec3{0, 0, 1}
	if math.Abs(forward.Dot(up)) > 0.999 {
		up = Vec3{0, 1, 0}
	}
	back := forward.Neg()
	right := up.Cross(back).Norm()
	trueUp := back.Cross(right)
	return Mat3{
		{right.X, trueUp.X, back.X},
		{right.Y, trueUp.Y, back.Y},
		{right.Z, trueUp.Z, back.Z},
	}
}

// AlmostEqual reports whether a and b differ by less than eps.
func AlmostEqual(a, b, eps float64) bool { return math.Abs(a-b) < eps }

// RGB is a linear color; components are nominally in [0,1] but emission and
// radiance values may exceed 1.
type RGB struct {
	R, G, B float64
}

// Add returns the channel-wise sum.
func (c RGB) Add(o RGB) RGB { return RGB{c.R + o.R, c.G + o.G, c.B + o.B} }

// Mul returns the channel-wise product.
func (c RGB) Mul(o RGB) RGB { return RGB{c.R * o.R, c.G * o.G, c.B * o.B} }

// Scale multiplies every channel by s.
func (c RGB) Scale(s float64) RGB { return RGB{c.R * s, c.G * s, c.B * s} }

// Max returns the largest channel.
func (c RGB) Max() float64 { return math.Max(c.R, math.Max(c.G, c.B)) }

// Luminance returns the Rec. 709 luminance.
func (c RGB) Luminance() float64 { return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B }

// IsBlack reports whether every channel is zero or negative.
func (c RGB) IsBlack() bool { return c.R <= 0 && c.G <= 0 && c.B <= 0 }
