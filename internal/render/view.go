package render

import (
	"errors"
	"math"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/scene"
)

// ErrNoCamera is returned when the scene has no active camera.
var ErrNoCamera = errors.New("render: scene has no active camera")

// View is the active camera resolved for one image size. The sensor is fitted to
// the wider image axis.
type View struct {
	Origin  geom.Vec3
	Right   geom.Vec3
	Up      geom.Vec3
	Forward geom.Vec3

	TanHalfW, TanHalfH float64
	ClipStart, ClipEnd float64

	// Aperture is the lens radius in scene units; zero disables depth of field.
	Aperture      float64
	FocusDistance float64
}

// NewView resolves the scene's active camera, constraints included.
func NewView(s *scene.Scene, w, h int) (View, error) {
	cam := s.ActiveCamera()
	if cam == nil {
		return View{}, ErrNoCamera
	}
	c := cam.Camera
	rot := s.Rotation(cam)
	v := View{
		Origin:    cam.Location,
		Right:     rot.Column(0),
		Up:        rot.Column(1),
		Forward:   rot.Column(2).Neg(),
		ClipStart: c.ClipStart,
		ClipEnd:   c.ClipEnd,
	}
	lens := c.Lens
	if lens <= 0 {
		lens = scene.DefaultCamera().Lens
	}
	sensor := c.SensorWidth
	if sensor <= 0 {
		sensor = scene.DefaultCamera().SensorWidth
	}
	half := sensor / 2 / lens
	if w >= h {
		v.TanHalfW = half
		v.TanHalfH = half * float64(h) / float64(w)
	} else {
		v.TanHalfH = half
		v.TanHalfW = half * float64(w) / float64(h)
	}
	if c.DOF.Use && c.DOF.FStop > 0 {
		v.FocusDistance = s.FocusDistance(cam)
		if v.FocusDistance > 0 {
			v.Aperture = lens / 1000 / (2 * c.DOF.FStop)
		}
	}
	return v, nil
}

// VerticalFOV returns the full vertical field of view in degrees.
func (v View) VerticalFOV() float64 {
	return 2 * math.Atan(v.TanHalfH) * 180 / math.Pi
}

// Ray returns the pinhole ray through screen point (sx, sy), each in [-1, 1] with
// +x right and +y up.
func (v View) Ray(sx, sy float64) (origin, dir geom.Vec3) {
	dir = v.Forward.
		Add(v.Right.Mul(sx * v.TanHalfW)).
		Add(v.Up.Mul(sy * v.TanHalfH)).
		Norm()
	return v.Origin, dir
}

// LensRay is Ray through a thin lens, (lx, ly) a point on the unit disk.
func (v View) LensRay(sx, sy, lx, ly float64) (origin, dir geom.Vec3) {
	o, d := v.Ray(sx, sy)
	if v.Aperture <= 0 {
		return o, d
	}
	focus := o.Add(d.Mul(v.FocusDistance / d.Dot(v.Forward)))
	o = o.Add(v.Right.Mul(lx * v.Aperture)).Add(v.Up.Mul(ly * v.Aperture))
	return o, focus.Sub(o).Norm()
}
