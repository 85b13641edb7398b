package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fractal-bench/internal/geom"
)

func TestValueNoiseRangeAndDeterminism(t *testing.T) {
	for i := 0; i < 200; i++ {
		p := geom.V(float64(i)*0.37, float64(i)*-0.11, float64(i)*0.73)
		v := ValueNoise3D(p, 7)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		assert.Equal(t, v, ValueNoise3D(p, 7))
	}
}

func TestValueNoiseMatchesLatticeAtCorners(t *testing.T) {
	assert.Equal(t, hash3D(2, -3, 5, 1), ValueNoise3D(geom.V(2, -3, 5), 1))
}

func TestTextureFac(t *testing.T) {
	tex := Texture{Scale: 15, Detail: 8, Roughness: 0.7}
	seen := map[float64]bool{}
	for i := 0; i < 50; i++ {
		v := tex.Fac(geom.V(float64(i)*0.013, 0.2, -0.4))
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		seen[v] = true
	}
	assert.Greater(t, len(seen), 10)
}

func TestFractionalDetailIsContinuous(t *testing.T) {
	p := geom.V(0.31, 0.77, 0.12)
	a := Texture{Scale: 3, Detail: 2, Roughness: 0.5}.Fac(p)
	b := Texture{Scale: 3, Detail: 2.0001, Roughness: 0.5}.Fac(p)
	assert.InDelta(t, a, b, 1e-3)
}

func TestGradientIsFinite(t *testing.T) {
	g := DefaultTexture().Gradient(geom.V(0.5, 0.25, 0.125))
	assert.False(t, g.Len() != g.Len(), "NaN gradient")
}
