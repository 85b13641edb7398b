package placement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/geom"
)

func TestGoldenAngle(t *testing.T) {
	assert.InDelta(t, 137.5077640500378, GoldenAngle*180/math.Pi, 1e-9)
}

func TestSpiralPointIsClosedForm(t *testing.T) {
	for _, i := range []int{0, 1, 2, 17, 299} {
		x, y := SpiralPoint(i, GoldenAngle)
		theta := float64(i) * GoldenAngle
		r := 0.15 * math.Sqrt(float64(i))
		// Bit-for-bit under the stated formula.
		assert.Equal(t, r*math.Cos(theta), x, "x at %d", i)
		assert.Equal(t, r*math.Sin(theta), y, "y at %d", i)

		x2, y2 := SpiralPoint(i, GoldenAngle)
		assert.Equal(t, x, x2)
		assert.Equal(t, y, y2)
	}
	x, y := SpiralPoint(0, GoldenAngle)
	assert.Zero(t, x)
	assert.Zero(t, y)
}

func TestGoldenSpiral(t *testing.T) {
	spheres := GoldenSpiral(300)
	require.Len(t, spheres, 300)
	assert.InDelta(t, 0.14, spheres[0].Radius, 1e-12)
	assert.InDelta(t, 0.08+0.06/300, spheres[299].Radius, 1e-12)
	for i, s := range spheres {
		assert.Equal(t, s.Radius, s.Location.Z, "sphere %d rests on the ground", i)
		assert.Equal(t, i%5, s.Material)
		x, y := SpiralPoint(i, GoldenAngle)
		assert.Equal(t, x, s.Location.X)
		assert.Equal(t, y, s.Location.Y)
	}
}

func TestSpiralAccents(t *testing.T) {
	orbs := SpiralAccents(8)
	require.Len(t, orbs, 8)
	assert.Equal(t, geom.V(0, 0, 0.15), orbs[0].Location)
	r := 0.15 * math.Sqrt(35)
	a := GoldenAngle * 30
	assert.InDelta(t, r*math.Cos(a), orbs[1].Location.X, 1e-12)
	assert.InDelta(t, r*math.Sin(a), orbs[1].Location.Y, 1e-12)
	assert.Len(t, SpiralAccents(20), 8)
}

func TestCrystalCaveIsReproducible(t *testing.T) {
	a := CrystalCave(NewRand())
	b := CrystalCave(NewRand())
	require.Len(t, a, GroundCrystals+SideCrystals+CeilingCrystals)
	assert.Equal(t, a, b)
}

func TestCrystalCaveBounds(t *testing.T) {
	crystals := CrystalCave(NewRand())
	for i, c := range crystals {
		assert.GreaterOrEqual(t, c.Material, 0)
		assert.Less(t, c.Material, CrystalMaterials)
		assert.GreaterOrEqual(t, c.Spin, 0.0)
		assert.Less(t, c.Spin, 360.0)
		switch {
		case i < GroundCrystals:
			r := math.Hypot(c.Location.X, c.Location.Y)
			assert.LessOrEqual(t, r, 1.5)
			assert.Zero(t, c.Location.Z)
			assert.True(t, c.Height >= 0.5 && c.Height <= 2.5)
			assert.True(t, c.Radius >= 0.06 && c.Radius <= 0.18)
			assert.LessOrEqual(t, math.Abs(c.Tilt[0]), 15.0)
		case i < GroundCrystals+SideCrystals:
			assert.True(t, c.Location.X >= -3.5 && c.Location.X <= -1.5)
			assert.True(t, c.Location.Y >= -1 && c.Location.Y <= 2)
			assert.LessOrEqual(t, math.Abs(c.Tilt[1]), 20.0)
		default:
			assert.Equal(t, 5.0, c.Location.Z)
			assert.Equal(t, [2]float64{180, 0}, c.Tilt)
		}
	}
}

func TestCrystalCaveDiffersAcrossSeeds(t *testing.T) {
	a := CrystalCave(NewRand())
	rng := NewRand()
	rng.Float64()
	b := CrystalCave(rng)
	assert.NotEqual(t, a[0].Location, b[0].Location)
}

func TestCrystalMesh(t *testing.T) {
	verts, faces := CrystalMesh(2, 0.1)
	require.Len(t, verts, 13)
	require.Len(t, faces, 13)
	assert.Equal(t, geom.V(0, 0, 2), verts[12])
	assert.InDelta(t, 1.5, verts[6].Z, 1e-12)
	assert.InDelta(t, 0.07, math.Hypot(verts[6].X, verts[6].Y), 1e-12)
	for i := 0; i < 6; i++ {
		assert.Len(t, faces[i], 4)
		assert.Len(t, faces[6+i], 3)
		assert.Equal(t, 12, faces[6+i][2])
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, faces[12])
	for _, f := range faces {
		for _, idx := range f {
			assert.Less(t, idx, len(verts))
		}
	}
}

func TestCrystalLights(t *testing.T) {
	crystals := CrystalCave(NewRand())
	lights := CrystalLights(crystals)
	require.Len(t, lights, 7)
	assert.Equal(t, crystals[4].Location.Add(geom.V(0, 0, 0.5)), lights[1].Location)
	assert.Equal(t, 150.0, lights[0].Energy)
	assert.Equal(t, crystals[14].Location.Add(geom.V(0, 0, 0.3)), lights[6].Location)
	assert.Equal(t, 80.0, lights[6].Energy)
	assert.Len(t, CrystalLights(crystals[:3]), 2)
}

func TestCorridorLayout(t *testing.T) {
	panels := MirrorPanels()
	require.Len(t, panels, 6)
	assert.True(t, panels[0].Dark)
	neon := NeonElements()
	require.Len(t, neon, 4+4*12)
	assert.InDelta(t, 0.8+11*1.1, neon[len(neon)-1].Location.Y, 1e-12)
	assert.Equal(t, NeonColors[11%5], neon[len(neon)-1].Color)
	for _, e := range neon {
		assert.Positive(t, e.Strength)
	}
}

func TestMirrorOrbsAreSeeded(t *testing.T) {
	a := MirrorOrbs(NewRand(), 10)
	b := MirrorOrbs(NewRand(), 10)
	require.Len(t, a, 10)
	assert.Equal(t, a, b)
	for _, o := range a {
		assert.True(t, math.Abs(o.Location.X) <= CorridorWidth/2-0.3)
		assert.True(t, o.Location.Z >= 0.3 && o.Location.Z <= CorridorHeight-0.3)
	}
}
