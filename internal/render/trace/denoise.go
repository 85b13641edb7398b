package trace

import (
	"math"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/render"
)

// Denoiser tuning. Weights fall off with pixel distance, color difference, albedo
// difference and normal angle.
const (
	denoiseRadius = 2
	sigmaSpatial  = 1.5
	sigmaColor    = 0.35
	sigmaAlbedo   = 0.1
	sigmaNormal   = 0.15
)

// aovs are the first-hit guide buffers.
type aovs struct {
	w, h   int
	albedo []geom.RGB
	normal []geom.Vec3
}

func newAOVs(w, h int) *aovs {
	return &aovs{w: w, h: h, albedo: make([]geom.RGB, w*h), normal: make([]geom.Vec3, w*h)}
}

func (a *aovs) set(x, y int, albedo geom.RGB, n geom.Vec3) {
	a.albedo[y*a.w+x] = albedo
	a.normal[y*a.w+x] = n
}

// denoise applies a joint bilateral filter guided by albedo and normals, in place.
// Edges in either guide are preserved.
func denoise(f *render.Frame, g *aovs) {
	src := make([]geom.RGB, len(f.Pix))
	copy(src, f.Pix)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := y*f.Width + x
			c0 := src[i]
			l0 := tonemapLum(c0)
			var sum geom.RGB
			var wsum float64
			for dy := -denoiseRadius; dy <= denoiseRadius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= f.Height {
					continue
				}
				for dx := -denoiseRadius; dx <= denoiseRadius; dx++ {
					xx := x + dx
					if xx < 0 || xx >= f.Width {
						continue
					}
					j := yy*f.Width + xx
					ds := float64(dx*dx+dy*dy) / (2 * sigmaSpatial * sigmaSpatial)
					dc := tonemapLum(src[j]) - l0
					da := g.albedo[j].Add(g.albedo[i].Scale(-1)).Luminance()
					dn := 1 - g.normal[j].Dot(g.normal[i])
					wt := math.Exp(-ds -
						dc*dc/(2*sigmaColor*sigmaColor) -
						da*da/(2*sigmaAlbedo*sigmaAlbedo) -
						dn*dn/(2*sigmaNormal*sigmaNormal))
					sum = sum.Add(src[j].Scale(wt))
					wsum += wt
				}
			}
			f.Pix[i] = sum.Scale(1 / wsum)
		}
	}
}

// tonemapLum compresses luminance so bright pixels do not dominate color distance.
func tonemapLum(c geom.RGB) float64 {
	l := c.Luminance()
	return l / (1 + l)
}
