package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	"fractal-bench/internal/compositor"
	"fractal-bench/internal/scene"
)

// Encode tone maps f and encodes it as PNG at the settings' color depth. When comp
// is set the compositor runs on the 8-bit image first; a 16-bit file then carries
// the composited 8-bit values widened.
func Encode(f *Frame, rs scene.RenderSettings, comp *scene.NodeGroup) ([]byte, error) {
	if rs.FileFormat != "" && rs.FileFormat != "PNG" {
		return nil, fmt.Errorf("render: unsupported file format %q", rs.FileFormat)
	}
	if rs.ColorDepth != 0 && rs.ColorDepth != 8 && rs.ColorDepth != 16 {
		return nil, fmt.Errorf("render: unsupported color depth %d", rs.ColorDepth)
	}
	deep := rs.ColorDepth == 16

	var img image.Image
	switch {
	case comp != nil:
		c, err := compositor.Apply(f.Image8(), comp)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		img = c
		if deep {
			wide := image.NewNRGBA64(c.Bounds())
			xdraw.Draw(wide, wide.Bounds(), c, c.Bounds().Min, xdraw.Src)
			img = wide
		}
	case deep:
		img = f.Image16()
	default:
		img = f.Image8()
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Downsample scales src to w x h with a Catmull-Rom filter.
func Downsample(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
