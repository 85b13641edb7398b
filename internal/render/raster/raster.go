// Package raster is the GPU render engine: an OpenGL rasterizer on a hidden raylib
// window. It draws flat-lit geometry into an offscreen target at a supersampled size
// and filters it down, trading path-traced light transport for speed.
//
// raylib is bound to the OS thread that opened the window, so every method must be
// called from one goroutine, normally main with runtime.LockOSThread.
package raster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/render"
	"fractal-bench/internal/render/shade"
	"fractal-bench/internal/scene"
)

// Name is the engine name recorded on frames.
const Name = "raster"

// maxTarget bounds the offscreen target edge.
const maxTarget = 8192

// ErrUnavailable is returned when no GL context could be created.
var ErrUnavailable = errors.New("raster: no OpenGL context")

// Options configures the engine. Supersample is the per-axis oversampling factor.
type Options struct {
	Supersample int
}

// Engine renders on the GPU. The zero value is not usable; call New.
type Engine struct {
	opts  Options
	ready bool
	reg   *registry
}

// New returns an engine; the window opens on first use.
func New(opts Options) *Engine {
	if opts.Supersample <= 0 {
		opts.Supersample = 2
	}
	return &Engine{opts: opts, reg: newRegistry()}
}

func (e *Engine) Name() string         { return Name }
func (e *Engine) Device() scene.Device { return scene.DeviceGPU }

// Open creates the hidden window and GL context if needed.
func (e *Engine) Open() error {
	if e.ready {
		return nil
	}
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(1, 1, "fractal-bench")
	if !rl.IsWindowReady() {
		return ErrUnavailable
	}
	e.ready = true
	return nil
}

// Close releases GPU resources and the window.
func (e *Engine) Close() {
	if !e.ready {
		return
	}
	e.reg.unload()
	rl.CloseWindow()
	e.ready = false
}

// Render rasterizes s at its output resolution.
func (e *Engine) Render(ctx context.Context, s *scene.Scene) (*render.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, h := s.Render.Size()
	view, err := render.NewView(s, w, h)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	if err := e.Open(); err != nil {
		return nil, err
	}
	start := time.Now()

	ss := e.opts.Supersample
	for ss > 1 && max(w, h)*ss > maxTarget {
		ss--
	}
	tw, th := int32(w*ss), int32(h*ss)
	target := rl.LoadRenderTexture(tw, th)
	if !rl.IsRenderTextureValid(target) {
		return nil, fmt.Errorf("raster: %dx%d target: %w", tw, th, ErrUnavailable)
	}
	defer rl.UnloadRenderTexture(target)

	rig := shade.NewRig(s, view.Origin)
	e.reg.setRig(rig)

	cam := rl.Camera3D{
		Position:   vec(shade.Point(view.Origin)),
		Target:     vec(shade.Point(view.Origin.Add(view.Forward))),
		Up:         vec(shade.Point(view.Up)),
		Fovy:       float32(view.VerticalFOV()),
		Projection: rl.CameraPerspective,
	}

	bg := shade.RGBA8(rig.Background)
	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.NewColor(bg[0], bg[1], bg[2], 255))
	rl.BeginMode3D(cam)
	rl.DisableBackfaceCulling()
	var drawn, tris int
	for _, o := range s.ObjectsOf(scene.TypeMesh) {
		n, err := e.drawObject(s, o, rig)
		if err != nil {
			rl.EnableBackfaceCulling()
			rl.EndMode3D()
			rl.EndTextureMode()
			return nil, err
		}
		drawn++
		tris += n
	}
	rl.EnableBackfaceCulling()
	rl.EndMode3D()
	rl.EndTextureMode()

	img := rl.LoadImageFromTexture(target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)
	frame := render.FromImage(render.Downsample(img.ToImage(), w, h))
	frame.Engine = Name

	slog.Debug("raster: frame done", "objects", drawn, "cpu_tris", tris,
		"size", fmt.Sprintf("%dx%d", w, h), "supersample", ss, "elapsed", time.Since(start))
	return frame, nil
}

// drawObject draws one mesh object and returns how many triangles were shaded on
// the CPU. Unmodified primitives go through the lit shader; everything else is
// evaluated, transformed and drawn as flat triangles.
func (e *Engine) drawObject(s *scene.Scene, o *scene.Object, rig shade.Rig) (int, error) {
	color, emissive := shade.Albedo(s.Surface(o))
	if k, size := key(o.Mesh); k != "" && len(o.Modifiers) == 0 {
		m := s.Matrix(o).Mul(geom.ScaleMatrix(geom.V(size, size, size)))
		e.reg.draw(o.Mesh, shade.Model(m, o.Location), color, emissive)
		return 0, nil
	}

	verts, faces, err := s.Evaluated(o)
	if err != nil {
		return 0, fmt.Errorf("raster: %w", err)
	}
	world := make([]shade.Vec, len(verts))
	for i, p := range verts {
		world[i] = shade.Point(s.ToWorld(o, p))
	}
	tris := scene.Triangulate(faces)
	for _, t := range tris {
		a, b, c := world[t[0]], world[t[1]], world[t[2]]
		col := color
		if !emissive {
			n := cross(sub(b, a), sub(c, a))
			col = rig.Shade(color, centroid(a, b, c), n)
		}
		rgba := shade.RGBA8(col)
		rl.DrawTriangle3D(vec(a), vec(b), vec(c), rl.NewColor(rgba[0], rgba[1], rgba[2], 255))
	}
	return len(tris), nil
}

func vec(v shade.Vec) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

func sub(a, b shade.Vec) shade.Vec { return shade.Vec{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func cross(a, b shade.Vec) shade.Vec {
	return shade.Vec{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func centroid(a, b, c shade.Vec) shade.Vec {
	return shade.Vec{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3, (a[2] + b[2] + c[2]) / 3}
}
