// Package render runs render engines over a scene and writes the still image, the
// way a blocking render-with-write-still call does.
package render

import (
	"image"
	"image/color"
	"math"

	"fractal-bench/internal/geom"
)

// Frame is a rendered image in linear RGB, row 0 at the top. Engines that produce
// display-referred output set Display; such frames skip tone mapping.
type Frame struct {
	Width, Height int
	Pix           []geom.RGB
	Display       bool
	// Engine is the name of the engine that produced the frame.
	Engine string
}

// NewFrame returns a black frame.
func NewFrame(w, h int) *Frame {
	return &Frame{Width: w, Height: h, Pix: make([]geom.RGB, w*h)}
}

// At returns the pixel at x, y.
func (f *Frame) At(x, y int) geom.RGB { return f.Pix[y*f.Width+x] }

// Set stores the pixel at x, y.
func (f *Frame) Set(x, y int, c geom.RGB) { f.Pix[y*f.Width+x] = c }

// FromImage converts a display-referred sRGB image into a frame.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	f.Display = true
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			f.Set(x, y, geom.RGB{
				R: srgbToLinear(float64(c.R) / 0xffff),
				G: srgbToLinear(float64(c.G) / 0xffff),
				B: srgbToLinear(float64(c.B) / 0xffff),
			})
		}
	}
	return f
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSRGB(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 1
	case v <= 0.0031308:
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// filmic maps scene-linear radiance into [0,1) with a soft shoulder (ACES fit).
func filmic(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	return math.Min(1, (v*(a*v+b))/(v*(c*v+d)+e))
}

// display returns the pixel's display-referred sRGB components in [0,1].
func (f *Frame) display(i int) (r, g, b float64) {
	p := f.Pix[i]
	if !f.Display {
		p = geom.RGB{R: filmic(p.R), G: filmic(p.G), B: filmic(p.B)}
	}
	return linearToSRGB(p.R), linearToSRGB(p.G), linearToSRGB(p.B)
}

// Image8 returns the frame tone mapped to 8-bit sRGB.
func (f *Frame) Image8() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := range f.Pix {
		r, g, b := f.display(i)
		o := i * 4
		img.Pix[o+0] = uint8(math.Round(r * 255))
		img.Pix[o+1] = uint8(math.Round(g * 255))
		img.Pix[o+2] = uint8(math.Round(b * 255))
		img.Pix[o+3] = 0xff
	}
	return img
}

// Image16 returns the frame tone mapped to 16-bit sRGB.
func (f *Frame) Image16() *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, f.Width, f.Height))
	for i := range f.Pix {
		r, g, b := f.display(i)
		put16(img.Pix[i*8:], r, g, b)
	}
	return img
}

// put16 stores big-endian 16-bit RGBA, alpha opaque.
func put16(p []uint8, r, g, b float64) {
	for j, v := range [3]float64{r, g, b} {
		u := uint16(math.Round(v * 0xffff))
		p[j*2] = uint8(u >> 8)
		p[j*2+1] = uint8(u)
	}
	p[6], p[7] = 0xff, 0xff
}
