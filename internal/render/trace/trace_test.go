package trace

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
	"fractal-bench/internal/render"
	"fractal-bench/internal/scene"
)

func TestTriangleIntersect(t *testing.T) {
	p := newTriangle(geom.V(-1, -1, 0), geom.V(1, -1, 0), geom.V(0, 1, 0), nil)
	h, ok := p.intersect(ray{o: geom.V(0, 0, 5), d: geom.V(0, 0, -1)}, 0, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 5.0, h.t, 1e-12)
	assert.True(t, h.front)
	assert.InDelta(t, 1.0, h.n.Z, 1e-12)

	h, ok = p.intersect(ray{o: geom.V(0, 0, -5), d: geom.V(0, 0, 1)}, 0, math.Inf(1))
	require.True(t, ok)
	assert.False(t, h.front)
	assert.InDelta(t, -1.0, h.n.Z, 1e-12, "normals face the incoming ray")

	_, ok = p.intersect(ray{o: geom.V(3, 0, 5), d: geom.V(0, 0, -1)}, 0, math.Inf(1))
	assert.False(t, ok)
	_, ok = p.intersect(ray{o: geom.V(0, 0, 5), d: geom.V(0, 0, -1)}, 0, 4)
	assert.False(t, ok)
}

func TestSphereIntersect(t *testing.T) {
	p := newSphere(geom.V(0, 0, 0), 1, nil)
	h, ok := p.intersect(ray{o: geom.V(0, -5, 0), d: geom.V(0, 1, 0)}, 0, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 4.0, h.t, 1e-12)
	assert.True(t, h.front)

	h, ok = p.intersect(ray{o: geom.Vec3{}, d: geom.V(0, 1, 0)}, 1e-6, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 1.0, h.t, 1e-12)
	assert.False(t, h.front)
}

func TestBVHMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rnd := func() geom.Vec3 { return geom.V(rng.Float64()*10-5, rng.Float64()*10-5, rng.Float64()*10-5) }
	var prims []*prim
	for i := 0; i < 200; i++ {
		c := rnd()
		prims = append(prims, newTriangle(c, c.Add(rnd().Mul(0.2)), c.Add(rnd().Mul(0.2)), nil))
	}
	for i := 0; i < 20; i++ {
		prims = append(prims, newSphere(rnd(), 0.3, nil))
	}
	all := append([]*prim(nil), prims...)
	root := buildBVH(prims)

	for i := 0; i < 500; i++ {
		r := ray{o: rnd().Mul(2), d: uniformSphere(rng)}
		want, wantOK := hit{}, false
		best := math.Inf(1)
		for _, p := range all {
			if h, ok := p.intersect(r, rayEpsilon, best); ok {
				best, want, wantOK = h.t, h, true
			}
		}
		got, ok := root.nearest(r, rayEpsilon, math.Inf(1))
		require.Equal(t, wantOK, ok)
		if ok {
			assert.InDelta(t, want.t, got.t, 1e-9)
		}
	}
}

func TestFresnelAndRefraction(t *testing.T) {
	assert.InDelta(t, 0.04, fresnelDielectric(1, 1/1.5), 1e-12)
	assert.Equal(t, 1.0, fresnelDielectric(0.1, 1.5), "total internal reflection")

	d, ok := refract(geom.V(0, 0, -1), geom.V(0, 0, 1), 1/1.5)
	require.True(t, ok)
	assert.InDelta(t, -1.0, d.Z, 1e-12)

	in := geom.V(1, 0, -1).Norm()
	d, ok = refract(in, geom.V(0, 0, 1), 1/1.5)
	require.True(t, ok)
	assert.InDelta(t, math.Sin(math.Pi/4)/1.5, d.X, 1e-12, "Snell's law")
}

func TestCosineHemisphere(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := geom.V(0, 1, 1).Norm()
	for i := 0; i < 1000; i++ {
		d := cosineHemisphere(n, rng)
		assert.GreaterOrEqual(t, d.Dot(n), -1e-12)
		assert.InDelta(t, 1.0, d.Len(), 1e-9)
	}
}

func TestAreaLightSample(t *testing.T) {
	s := scene.New()
	o := s.AddLight(scene.LightArea, geom.V(0, 0, 10))
	o.Light.Energy = 100
	o.Light.Size = 0.01
	l := newLight(s, o)
	assert.InDelta(t, -1.0, l.normal.Z, 1e-12, "unrotated area lights face down")

	rng := rand.New(rand.NewSource(1))
	wi, dist, li, ok := l.sample(geom.Vec3{}, rng)
	require.True(t, ok)
	assert.InDelta(t, 1.0, wi.Z, 1e-6)
	assert.InDelta(t, 10.0, dist, 1e-3)
	assert.InDelta(t, 100/(math.Pi*100), li.R, 1e-4)

	_, _, _, ok = l.sample(geom.V(0, 0, 20), rng)
	assert.False(t, ok, "area lights are one-sided")

	tt, ok := l.intersect(ray{o: geom.Vec3{}, d: geom.V(0, 0, 1)}, math.Inf(1))
	require.True(t, ok)
	assert.InDelta(t, 10.0, tt, 1e-12)
}

func TestBounceLimits(t *testing.T) {
	rs := scene.RenderSettings{MaxBounces: 3, DiffuseBounces: 1, GlossyBounces: 2, TransmissionBounces: 0}
	var b bounces
	assert.True(t, b.take(lobeDiffuse, &rs))
	assert.False(t, b.take(lobeDiffuse, &rs))
	assert.False(t, b.take(lobeTransmission, &rs))
	assert.True(t, b.take(lobeGlossy, &rs))
	assert.True(t, b.take(lobeGlossy, &rs))
	assert.False(t, b.take(lobeGlossy, &rs))
	assert.Equal(t, 3, b.total)
}

func TestPickMix(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mix := material.Resolve(material.Crystal("c", geom.RGB{R: 1}, 5))
	var glass, emit int
	for i := 0; i < 2000; i++ {
		switch pick(mix, rng).Lobe {
		case material.LobeGlass:
			glass++
		case material.LobeEmission:
			emit++
		}
	}
	assert.Equal(t, 2000, glass+emit)
	assert.InDelta(t, 0.45, float64(emit)/2000, 0.05)
}

func litScene() *scene.Scene {
	s := scene.New()
	s.Render.ResolutionX = 16
	s.Render.ResolutionY = 12
	s.Render.Samples = 4
	s.Render.Seed = 7
	floor := s.AddPlane(10, geom.Vec3{})
	s.AddMaterial(floor, material.Principled("Floor", material.PrincipledOpts{BaseColor: geom.RGB{R: 0.8, G: 0.8, B: 0.8}, Roughness: 0.5}))
	ball := s.AddUVSphere(0.5, 16, 8, geom.V(0, 0, 0.5))
	s.AddMaterial(ball, material.Glass("Glass", geom.RGB{R: 1, G: 1, B: 1}, 1.5, 0))
	l := s.AddLight(scene.LightArea, geom.V(0, 0, 4))
	l.Light.Energy = 500
	l.Light.Size = 2
	cam := s.AddCamera(geom.V(0, -6, 3))
	cam.SetTrackTo(ball)
	return s
}

func TestRenderIsDeterministicAcrossWorkers(t *testing.T) {
	s := litScene()
	a, err := New(Options{Workers: 1, TileSize: 5}).Render(context.Background(), s)
	require.NoError(t, err)
	b, err := New(Options{Workers: 4, TileSize: 5}).Render(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
	assert.Equal(t, Name, a.Engine)
	assert.False(t, a.Display)

	var lit int
	for _, p := range a.Pix {
		if p.Max() > 0.01 {
			lit++
		}
	}
	assert.Greater(t, lit, len(a.Pix)/2, "the lit floor fills most of the frame")
}

func TestRenderDenoisedAndVolume(t *testing.T) {
	s := litScene()
	s.Render.Denoise = true
	s.World = material.World("World", geom.RGB{R: 0.05, G: 0.05, B: 0.1}, 1, &material.VolumeOpts{Color: geom.RGB{R: 1, G: 1, B: 1}, Density: 0.05})
	f, err := New(Options{}).Render(context.Background(), s)
	require.NoError(t, err)
	for _, p := range f.Pix {
		require.False(t, math.IsNaN(p.R) || math.IsInf(p.R, 0))
	}
}

func TestRenderErrors(t *testing.T) {
	s := scene.New()
	_, err := New(Options{}).Render(context.Background(), s)
	assert.ErrorIs(t, err, render.ErrNoCamera)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(Options{}).Render(ctx, litScene())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDenoiseKeepsFlatImage(t *testing.T) {
	f := render.NewFrame(6, 6)
	g := newAOVs(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			f.Set(x, y, geom.RGB{R: 0.3, G: 0.2, B: 0.1})
			g.set(x, y, geom.RGB{R: 0.5}, geom.V(0, 0, 1))
		}
	}
	denoise(f, g)
	for _, p := range f.Pix {
		assert.InDelta(t, 0.3, p.R, 1e-12)
	}
}

func TestTiles(t *testing.T) {
	ts := tiles(70, 40, 32)
	require.Len(t, ts, 6)
	assert.Equal(t, tile{index: 5, x0: 64, y0: 32, x1: 70, y1: 40}, ts[5])
	assert.NotEqual(t, tileSeed(42, 0), tileSeed(42, 1))
	assert.NotEqual(t, tileSeed(42, 0), tileSeed(43, 0))
}
