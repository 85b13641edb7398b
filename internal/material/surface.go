package material

import (
	"fractal-bench/internal/geom"
	"fractal-bench/internal/noise"
)

// Lobe is the kind of a resolved surface.
type Lobe int

const (
	LobePrincipled Lobe = iota
	LobeGlass
	LobeEmission
	LobeMix
	// LobeNone is an output with nothing linked; it renders black.
	LobeNone
)

// Bump is a resolved noise-driven bump on the shading normal.
type Bump struct {
	Noise    noise.Texture
	Strength float64
	Distance float64
}

// Surface is the flattened shading model of a material graph. For LobeMix, A and B
// are the two mixed shaders and Fac is the weight of B.
type Surface struct {
	Lobe Lobe

	BaseColor        geom.RGB
	Metallic         float64
	Roughness        float64
	IOR              float64
	Transmission     float64
	SpecularIORLevel float64
	Subsurface       float64
	SubsurfaceRadius geom.RGB

	// Emission is color times strength.
	Emission geom.RGB

	Bump *Bump

	Fac  float64
	A, B *Surface
}

// Emissive reports whether any part of the surface emits light.
func (s *Surface) Emissive() bool {
	if s == nil {
		return false
	}
	if s.Lobe == LobeMix {
		return s.A.Emissive() || s.B.Emissive()
	}
	return !s.Emission.IsBlack()
}

// EmittedRadiance returns the emission weighted through any mix.
func (s *Surface) EmittedRadiance() geom.RGB {
	if s == nil {
		return geom.RGB{}
	}
	if s.Lobe == LobeMix {
		return s.A.EmittedRadiance().Scale(1 - s.Fac).Add(s.B.EmittedRadiance().Scale(s.Fac))
	}
	return s.Emission
}

// Albedo returns a representative diffuse color, used by the rasterizer.
func (s *Surface) Albedo() geom.RGB {
	if s == nil {
		return geom.RGB{}
	}
	switch s.Lobe {
	case LobeMix:
		return s.A.Albedo().Scale(1 - s.Fac).Add(s.B.Albedo().Scale(s.Fac))
	case LobeEmission:
		return s.Emission
	default:
		return s.BaseColor
	}
}

// defaultSurface is what an object without a material renders as.
var defaultSurface = Surface{
	Lobe:             LobePrincipled,
	BaseColor:        geom.RGB{R: 0.8, G: 0.8, B: 0.8},
	Roughness:        0.5,
	IOR:              1.5,
	SpecularIORLevel: 0.5,
}

// Default returns the surface of an unassigned material slot.
func Default() *Surface {
	s := defaultSurface
	return &s
}

// Resolve flattens the shader tree feeding the graph's output Surface input. A graph
// with use_nodes off, or without an output node, resolves to the default surface.
func Resolve(g *Graph) *Surface {
	if g == nil || !g.UseNodes {
		return Default()
	}
	out := g.Output()
	if out == nil {
		return Default()
	}
	from, _, ok := g.linked(out, "Surface")
	if !ok {
		return &Surface{Lobe: LobeNone}
	}
	return resolveShader(g, from, 0)
}

// maxShaderDepth bounds mix recursion in malformed or cyclic graphs.
const maxShaderDepth = 16

func resolveShader(g *Graph, n *Node, depth int) *Surface {
	if n == nil || depth > maxShaderDepth {
		return &Surface{Lobe: LobeNone}
	}
	switch n.Kind {
	case KindBsdfGlass:
		return &Surface{
			Lobe:         LobeGlass,
			BaseColor:    n.Color("Color"),
			Roughness:    n.Float("Roughness"),
			IOR:          n.Float("IOR"),
			Transmission: 1,
			Bump:         resolveBump(g, n),
		}
	case KindBsdfPrincipled:
		return &Surface{
			Lobe:             LobePrincipled,
			BaseColor:        n.Color("Base Color"),
			Metallic:         n.Float("Metallic"),
			Roughness:        n.Float("Roughness"),
			IOR:              n.Float("IOR"),
			Transmission:     n.Float("Transmission Weight"),
			SpecularIORLevel: n.Float("Specular IOR Level"),
			Subsurface:       n.Float("Subsurface Weight"),
			SubsurfaceRadius: n.Color("Subsurface Radius").Scale(n.Float("Subsurface Scale")),
			Emission:         n.Color("Emission Color").Scale(n.Float("Emission Strength")),
			Bump:             resolveBump(g, n),
		}
	case KindEmission:
		return &Surface{
			Lobe:     LobeEmission,
			Emission: n.Color("Color").Scale(n.Float("Strength")),
		}
	case KindMixShader:
		a, _, okA := g.linked(n, "Shader")
		b, _, okB := g.linked(n, "Shader_001")
		s := &Surface{Lobe: LobeMix, Fac: clamp01(n.Float("Fac"))}
		s.A, s.B = &Surface{Lobe: LobeNone}, &Surface{Lobe: LobeNone}
		if okA {
			s.A = resolveShader(g, a, depth+1)
		}
		if okB {
			s.B = resolveShader(g, b, depth+1)
		}
		return s
	default:
		return &Surface{Lobe: LobeNone}
	}
}

// resolveBump follows Normal <- Bump <- Height <- Noise Texture.
func resolveBump(g *Graph, n *Node) *Bump {
	bump, _, ok := g.linked(n, "Normal")
	if !ok || bump.Kind != KindBump {
		return nil
	}
	tex, _, ok := g.linked(bump, "Height")
	if !ok || tex.Kind != KindTexNoise {
		return nil
	}
	return &Bump{
		Noise: noise.Texture{
			Scale:      tex.Float("Scale"),
			Detail:     tex.Float("Detail"),
			Roughness:  tex.Float("Roughness"),
			Lacunarity: tex.Float("Lacunarity"),
		},
		Strength: bump.Float("Strength"),
		Distance: bump.Float("Distance"),
	}
}

// Environment is a resolved world: background radiance and an optional homogeneous
// scattering volume.
type Environment struct {
	Background geom.RGB
	Volume     *Volume
}

// Volume is a homogeneous scattering medium.
type Volume struct {
	Color   geom.RGB
	Density float64
}

// ResolveWorld flattens a world graph. A nil graph is the default grey world.
func ResolveWorld(g *Graph) Environment {
	env := Environment{Background: geom.RGB{R: 0.05, G: 0.05, B: 0.05}}
	if g == nil || !g.UseNodes {
		return env
	}
	out := g.Output()
	if out == nil {
		return env
	}
	env.Background = geom.RGB{}
	if bg, _, ok := g.linked(out, "Surface"); ok && bg.Kind == KindBackground {
		env.Background = bg.Color("Color").Scale(bg.Float("Strength"))
	}
	if vol, _, ok := g.linked(out, "Volume"); ok && vol.Kind == KindVolumeScatter {
		if d := vol.Float("Density"); d > 0 {
			env.Volume = &Volume{Color: vol.Color("Color"), Density: d}
		}
	}
	return env
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
