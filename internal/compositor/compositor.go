// Package compositor applies compositor node groups to rendered images. Nodes run
// in order on 8-bit RGBA images through bild.
package compositor

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/effect"

	"fractal-bench/internal/scene"
)

// Apply runs every node of g over img and returns the result. A nil group returns
// a copy of img.
func Apply(img image.Image, g *scene.NodeGroup) (*image.RGBA, error) {
	out := clone.AsRGBA(img)
	if g == nil {
		return out, nil
	}
	if g.Type != scene.CompositorNodeTree {
		return nil, fmt.Errorf("compositor: %s is a %s", g.Name, g.Type)
	}
	for _, n := range g.Nodes {
		var err error
		out, err = applyNode(out, n)
		if err != nil {
			return nil, fmt.Errorf("compositor: %s: %w", g.Name, err)
		}
	}
	return out, nil
}

func applyNode(img *image.RGBA, n *scene.GroupNode) (*image.RGBA, error) {
	switch n.Kind {
	case scene.NodeBlur:
		if r := n.Value("Size"); r > 0 {
			return blur.Gaussian(img, r), nil
		}
		return img, nil
	case scene.NodeFilter:
		return mix(img, effect.Sharpen(img), n.Value("Fac")), nil
	case scene.NodeDenoise:
		if r := n.Value("Radius"); r > 0 {
			return effect.Median(img, r), nil
		}
		return img, nil
	case scene.NodeBrightContrast:
		out := img
		if b := n.Value("Bright"); b != 0 {
			out = adjust.Brightness(out, b/100)
		}
		if c := n.Value("Contrast"); c != 0 {
			out = adjust.Contrast(out, c/100)
		}
		return out, nil
	case scene.NodeGamma:
		if g := n.Value("Gamma"); g > 0 && g != 1 {
			return adjust.Gamma(img, g), nil
		}
		return img, nil
	default:
		return nil, fmt.Errorf("node %s: unsupported kind %s", n.Name, n.Kind)
	}
}

// mix blends b over a by fac in [0,1].
func mix(a, b *image.RGBA, fac float64) *image.RGBA {
	switch {
	case fac <= 0:
		return a
	case fac >= 1:
		return b
	}
	out := image.NewRGBA(a.Rect)
	for i := range a.Pix {
		out.Pix[i] = uint8(float64(a.Pix[i])*(1-fac) + float64(b.Pix[i])*fac + 0.5)
	}
	return out
}
