package trace

import (
	"math"
	"sort"

	"fractal-bench/internal/geom"
)

// maxLeafPrims is the largest primitive count stored in one BVH leaf.
const maxLeafPrims = 4

type node struct {
	box         geom.Box
	left, right *node
	prims       []*prim // non-nil for leaves
}

// buildBVH builds a median-split hierarchy over prims, splitting on the axis with
// the widest centroid spread. The slice is reordered.
func buildBVH(prims []*prim) *node {
	if len(prims) == 0 {
		return nil
	}
	box := geom.EmptyBox()
	cbox := geom.EmptyBox()
	for _, p := range prims {
		box = box.Union(p.box)
		cbox = cbox.Extend(p.box.Center())
	}
	if len(prims) <= maxLeafPrims {
		return &node{box: box, prims: prims}
	}

	spread := cbox.Size()
	if spread.MaxComponent() <= 1e-12 {
		// Coincident centroids: split on the box's longest extent instead.
		spread = box.Size()
	}
	axis := 0
	if spread.Y > spread.Axis(axis) {
		axis = 1
	}
	if spread.Z > spread.Axis(axis) {
		axis = 2
	}
	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].box.Center().Axis(axis) < prims[j].box.Center().Axis(axis)
	})
	mid := len(prims) / 2
	return &node{
		box:   box,
		left:  buildBVH(prims[:mid]),
		right: buildBVH(prims[mid:]),
	}
}

// rayInv caches the reciprocal direction for slab tests.
type rayInv struct {
	inv [3]float64
	par [3]bool
}

func newRayInv(d geom.Vec3) rayInv {
	const eps = 1e-18
	var ri rayInv
	for i := 0; i < 3; i++ {
		c := d.Axis(i)
		if c > eps || c < -eps {
			ri.inv[i] = 1 / c
		} else {
			ri.par[i] = true
		}
	}
	return ri
}

// slab returns the entry distance of the ray into b, clipped to [tMin, tMax].
func slab(o geom.Vec3, ri *rayInv, b geom.Box, tMin, tMax float64) (float64, bool) {
	for i := 0; i < 3; i++ {
		oi := o.Axis(i)
		lo, hi := b.Min.Axis(i), b.Max.Axis(i)
		if ri.par[i] {
			if oi < lo || oi > hi {
				return 0, false
			}
			continue
		}
		t0 := (lo - oi) * ri.inv[i]
		t1 := (hi - oi) * ri.inv[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMax < tMin {
			return 0, false
		}
	}
	return tMin, true
}

// nearest returns the closest hit in (tMin, tMax). Children are visited near first.
func (n *node) nearest(r ray, tMin, tMax float64) (hit, bool) {
	if n == nil {
		return hit{}, false
	}
	ri := newRayInv(r.d)
	best := tMax
	var bestHit hit
	found := false

	type entry struct {
		n *node
		t float64
	}
	stack := make([]entry, 0, 64)
	if t, ok := slab(r.o, &ri, n.box, tMin, best); ok {
		stack = append(stack, entry{n, t})
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.t > best {
			continue
		}
		if e.n.prims != nil {
			for _, p := range e.n.prims {
				if h, ok := p.intersect(r, tMin, best); ok {
					best = h.t
					bestHit = h
					found = true
				}
			}
			continue
		}
		lt, lok := slab(r.o, &ri, e.n.left.box, tMin, best)
		rt, rok := slab(r.o, &ri, e.n.right.box, tMin, best)
		switch {
		case lok && rok:
			if lt < rt {
				stack = append(stack, entry{e.n.right, rt}, entry{e.n.left, lt})
			} else {
				stack = append(stack, entry{e.n.left, lt}, entry{e.n.right, rt})
			}
		case lok:
			stack = append(stack, entry{e.n.left, lt})
		case rok:
			stack = append(stack, entry{e.n.right, rt})
		}
	}
	return bestHit, found
}
