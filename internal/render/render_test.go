package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/output"
	"fractal-bench/internal/scene"
)

type solidEngine struct {
	name string
	c    geom.RGB
	err  error
}

func (e *solidEngine) Name() string         { return e.name }
func (e *solidEngine) Device() scene.Device { return scene.DeviceCPU }
func (e *solidEngine) Render(_ context.Context, s *scene.Scene) (*Frame, error) {
	if e.err != nil {
		return nil, e.err
	}
	w, h := s.Render.Size()
	f := NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = e.c
	}
	return f, nil
}

func testScene(depth int) *scene.Scene {
	s := scene.New()
	s.Render.ResolutionX = 8
	s.Render.ResolutionY = 4
	s.Render.ColorDepth = depth
	s.Render.FilePath = "/renders/test.png"
	return s
}

func TestStillWritesPNG(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	s := testScene(16)

	res, err := Still(context.Background(), &solidEngine{name: "solid", c: geom.RGB{R: 0.5, G: 0.5, B: 0.5}}, s, store)
	require.NoError(t, err)
	assert.Equal(t, "/renders/test.png", res.Path)
	assert.Equal(t, "solid", res.Engine)
	assert.Positive(t, res.Bytes)

	data, err := store.Read(res.Path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), res.Bytes)
	assert.Equal(t, 16, bitDepth(t, data))
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds())
	r, g, b, a := img.At(3, 2).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

// bitDepth reads the per-channel bit depth from a PNG's IHDR chunk. An opaque
// 16-bit image decodes as RGBA64 rather than NRGBA64, so the header is the
// reliable place to check it.
func bitDepth(t *testing.T, data []byte) int {
	t.Helper()
	require.Greater(t, len(data), 24)
	require.Equal(t, "IHDR", string(data[12:16]))
	return int(data[24])
}

func TestStillEightBit(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	s := testScene(8)
	s.Render.ResolutionPercentage = 50
	res, err := Still(context.Background(), &solidEngine{name: "solid"}, s, store)
	require.NoError(t, err)
	data, err := store.Read(res.Path)
	require.NoError(t, err)
	assert.Equal(t, 8, bitDepth(t, data))
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
}

func TestStillErrors(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)

	s := testScene(8)
	s.Render.FilePath = ""
	_, err = Still(context.Background(), &solidEngine{}, s, store)
	assert.ErrorIs(t, err, ErrNoOutputPath)

	boom := errors.New("boom")
	_, err = Still(context.Background(), &solidEngine{name: "x", err: boom}, testScene(8), store)
	assert.ErrorIs(t, err, boom)
	assert.False(t, store.Exists("/renders/test.png"))

	s = testScene(8)
	s.Render.Compositor = "missing"
	_, err = Still(context.Background(), &solidEngine{}, s, store)
	assert.Error(t, err)
}

func TestStillWithCompositor(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	s := testScene(16)
	g, err := s.NewNodeGroup("Post", scene.CompositorNodeTree)
	require.NoError(t, err)
	_, err = g.AddNode(scene.NodeBlur)
	require.NoError(t, err)
	s.Render.Compositor = g.Name
	res, err := Still(context.Background(), &solidEngine{c: geom.RGB{R: 1}}, s, store)
	require.NoError(t, err)
	assert.Positive(t, res.Bytes)
}

func TestFallback(t *testing.T) {
	store, err := output.NewMem()
	require.NoError(t, err)
	fb := &Fallback{
		Primary:   &solidEngine{name: "gpu", err: errors.New("no context")},
		Secondary: &solidEngine{name: "cpu"},
	}
	res, err := Still(context.Background(), fb, testScene(8), store)
	require.NoError(t, err)
	assert.Equal(t, "cpu", res.Engine)

	ok := &Fallback{Primary: &solidEngine{name: "gpu"}, Secondary: &solidEngine{name: "cpu"}}
	res, err = Still(context.Background(), ok, testScene(8), store)
	require.NoError(t, err)
	assert.Equal(t, "gpu", res.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fb.Primary = &solidEngine{name: "gpu", err: context.Canceled}
	_, err = fb.Render(ctx, testScene(8))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToneMapping(t *testing.T) {
	assert.Zero(t, filmic(-1))
	assert.Less(t, filmic(100), 1.0+1e-12)
	assert.Greater(t, filmic(1), filmic(0.5))
	assert.InDelta(t, 0.5, linearToSRGB(srgbToLinear(0.5)), 1e-12)

	f := NewFrame(1, 1)
	f.Display = true
	f.Pix[0] = geom.RGB{R: 1, G: 0, B: 0.2}
	img := f.Image8()
	assert.Equal(t, []uint8{255, 0, 124, 255}, img.Pix)
}

func TestFromImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(src.Pix, []uint8{10, 20, 30, 255, 200, 100, 50, 255})
	f := FromImage(src)
	assert.True(t, f.Display)
	assert.Equal(t, src.Pix, f.Image8().Pix)
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	dst := Downsample(src, 4, 4)
	assert.Equal(t, image.Rect(0, 0, 4, 4), dst.Bounds())
	assert.Equal(t, uint8(255), dst.Pix[0])
}

func TestView(t *testing.T) {
	s := scene.New()
	_, err := NewView(s, 16, 9)
	assert.ErrorIs(t, err, ErrNoCamera)

	cam := s.AddCamera(geom.V(0, -10, 0))
	target := s.AddEmpty("Target", geom.Vec3{})
	cam.SetTrackTo(target)
	cam.Camera.DOF = scene.DOF{Use: true, FocusObject: "Target", FStop: 2.5}

	v, err := NewView(s, 1920, 1080)
	require.NoError(t, err)
	assert.InDelta(t, 0.36, v.TanHalfW, 1e-12)
	assert.InDelta(t, 0.36*1080/1920, v.TanHalfH, 1e-12)
	assert.InDelta(t, 10.0, v.FocusDistance, 1e-9)
	assert.InDelta(t, 0.05/5, v.Aperture, 1e-12)

	_, d := v.Ray(0, 0)
	assert.InDelta(t, 1.0, d.Y, 1e-9)

	// Lens rays converge on the focal plane.
	o, d := v.LensRay(0, 0, 1, 0)
	p := o.Add(d.Mul(-o.Y / d.Y))
	assert.InDelta(t, 0.0, p.X, 1e-9)
	assert.InDelta(t, 0.0, p.Z, 1e-9)

	portrait, err := NewView(s, 9, 16)
	require.NoError(t, err)
	assert.InDelta(t, 0.36, portrait.TanHalfH, 1e-12)
}
