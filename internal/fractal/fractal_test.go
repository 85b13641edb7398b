package fractal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fractal-bench/internal/geom"
)

const eps = 1e-9

func TestMengerLeafCounts(t *testing.T) {
	for depth, want := range []int{1, 20, 400, 8000} {
		leaves := MengerSponge(geom.V(0, 0, 0), 3, depth, nil)
		assert.Len(t, leaves, want, "depth %d", depth)
		assert.Equal(t, want, MengerLeafCount(depth))
	}
}

func TestMengerDepthZeroIsBaseCase(t *testing.T) {
	leaves := MengerSponge(geom.V(1, 2, 3), 4.5, 0, nil)
	require.Len(t, leaves, 1)
	assert.Equal(t, Cube{Center: geom.V(1, 2, 3), Size: 4.5}, leaves[0])
}

func TestMengerDepthOneSkipsCenterCross(t *testing.T) {
	leaves := MengerSponge(geom.V(0, 0, 0), 3, 1, nil)
	require.Len(t, leaves, 20)
	corners, edges := 0, 0
	for _, c := range leaves {
		assert.InDelta(t, 1.0, c.Size, eps)
		zeros := 0
		for _, v := range []float64{c.Center.X, c.Center.Y, c.Center.Z} {
			if math.Abs(v) < eps {
				zeros++
			} else {
				assert.InDelta(t, 1.0, math.Abs(v), eps)
			}
		}
		switch zeros {
		case 0:
			corners++
		case 1:
			edges++
		default:
			t.Fatalf("center-cross cell emitted at %+v", c.Center)
		}
	}
	assert.Equal(t, 8, corners)
	assert.Equal(t, 12, edges)
}

func TestMengerLeavesStayInsideEveryParent(t *testing.T) {
	root := Cube{Center: geom.V(0.5, -1, 2), Size: 3}
	var check func(parent Cube, depth int)
	check = func(parent Cube, depth int) {
		box := parent.Box()
		for _, leaf := range MengerSponge(parent.Center, parent.Size, depth, nil) {
			assert.True(t, box.ContainsBox(leaf.Box(), eps), "leaf %+v escapes parent %+v", leaf, parent)
		}
		if depth == 0 {
			return
		}
		for _, child := range MengerSponge(parent.Center, parent.Size, 1, nil) {
			check(child, depth-1)
		}
	}
	check(root, 2)
}

func TestMengerSinkSeesLeavesInOrder(t *testing.T) {
	var seen []Cube
	leaves := MengerSponge(geom.V(0, 0, 0), 3, 2, func(i int, c Cube) {
		assert.Equal(t, len(seen), i)
		seen = append(seen, c)
	})
	assert.Equal(t, leaves, seen)
}

func TestMengerMaterialIndex(t *testing.T) {
	assert.Equal(t, 0, MengerMaterialIndex(geom.V(0, 0, 0), 4))
	// |7+13+19| = 39 -> 39 mod 4 = 3
	assert.Equal(t, 3, MengerMaterialIndex(geom.V(1, 1, 1), 4))
	// |-7*1.5| = 10.5 -> int 10 -> 10 mod 4 = 2
	assert.Equal(t, 2, MengerMaterialIndex(geom.V(-1.5, 0, 0), 4))
	assert.Equal(t, 0, MengerMaterialIndex(geom.V(1, 1, 1), 0))
}

func TestSierpinskiLeafCounts(t *testing.T) {
	for depth, want := range []int{1, 4, 16, 64, 256} {
		leaves := Sierpinski(geom.V(0, 0, 0), 3, depth, nil)
		assert.Len(t, leaves, want, "depth %d", depth)
		assert.Equal(t, want, SierpinskiLeafCount(depth))
	}
}

func TestSierpinskiChildRule(t *testing.T) {
	center := geom.V(0, 0, 0)
	verts := TetraVertices(center, 3)
	leaves := Sierpinski(center, 3, 1, nil)
	require.Len(t, leaves, 4)
	for i, leaf := range leaves {
		mid := center.Midpoint(verts[i])
		assert.InDelta(t, mid.X, leaf.Center.X, eps)
		assert.InDelta(t, mid.Y, leaf.Center.Y, eps)
		assert.InDelta(t, mid.Z, leaf.Center.Z, eps)
		assert.InDelta(t, 1.5, leaf.Size, eps)
	}
}

func TestSierpinskiDepthFourLeafSize(t *testing.T) {
	leaves := Sierpinski(geom.V(0, 0, 0), 3, 4, nil)
	require.Len(t, leaves, 256)
	for _, leaf := range leaves {
		assert.InDelta(t, 3.0/16, leaf.Size, eps)
	}
	// First leaf descends toward the apex four times: z = 0.612*3*(1/2+1/4+1/8+1/16).
	assert.InDelta(t, 0.612*3*(15.0/16), leaves[0].Center.Z, 1e-12)
}

func TestTetraVertices(t *testing.T) {
	v := TetraVertices(geom.V(1, 2, 3), 2)
	assert.Equal(t, 1.0, v[0].X)
	assert.Equal(t, 2.0, v[0].Y)
	assert.InDelta(t, 4.224, v[0].Z, eps)
	assert.InDelta(t, 2.0, v[1].X, eps)
	assert.InDelta(t, 2-0.578, v[1].Y, eps)
	assert.InDelta(t, 3-0.408, v[1].Z, eps)
	assert.InDelta(t, 0.0, v[2].X, eps)
	assert.InDelta(t, 2+1.154, v[3].Y, eps)
}

func TestSierpinskiMaterialIndex(t *testing.T) {
	var got []int
	Sierpinski(geom.V(0, 0, 0), 3, 1, func(i int, _ Tetra) {
		got = append(got, SierpinskiMaterialIndex(i, 3))
	})
	assert.Equal(t, []int{0, 1, 2, 0}, got)
}
