package material

import "fractal-bench/internal/geom"

// Glass returns a glass BSDF material.
func Glass(name string, color geom.RGB, ior, roughness float64) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputMaterial)
	glass := g.AddNode(KindBsdfGlass)
	glass.SetColor("Color", color).Set("Roughness", roughness).Set("IOR", ior)
	g.mustLink(glass, "BSDF", out, "Surface")
	return g
}

// Metal returns a fully metallic principled material.
func Metal(name string, color geom.RGB, roughness float64) *Graph {
	return Principled(name, PrincipledOpts{BaseColor: color, Metallic: 1, Roughness: roughness})
}

// Emission returns a pure emission material.
func Emission(name string, color geom.RGB, strength float64) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputMaterial)
	emit := g.AddNode(KindEmission)
	emit.SetColor("Color", color).Set("Strength", strength)
	g.mustLink(emit, "Emission", out, "Surface")
	return g
}

// PrincipledOpts are the principled BSDF inputs the scenes set. Zero values leave
// the optional lobes off; a zero SpecularIORLevel keeps the node default.
type PrincipledOpts struct {
	BaseColor geom.RGB
	Metallic  float64
	Roughness float64

	Subsurface       float64
	SubsurfaceRadius *geom.RGB

	EmissionColor    *geom.RGB
	EmissionStrength float64

	SpecularIORLevel float64
}

// Principled returns a principled BSDF material.
func Principled(name string, o PrincipledOpts) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputMaterial)
	bsdf := g.AddNode(KindBsdfPrincipled)
	bsdf.SetColor("Base Color", o.BaseColor).Set("Metallic", o.Metallic).Set("Roughness", o.Roughness)
	if o.Subsurface > 0 {
		bsdf.Set("Subsurface Weight", o.Subsurface).Set("Subsurface Scale", 0.1)
		if o.SubsurfaceRadius != nil {
			bsdf.SetColor("Subsurface Radius", *o.SubsurfaceRadius)
		}
	}
	if o.EmissionColor != nil {
		bsdf.SetColor("Emission Color", *o.EmissionColor).Set("Emission Strength", o.EmissionStrength)
	}
	if o.SpecularIORLevel > 0 {
		bsdf.Set("Specular IOR Level", o.SpecularIORLevel)
	}
	g.mustLink(bsdf, "BSDF", out, "Surface")
	return g
}

// Crystal returns a glowing crystal: glass mixed 55/45 with emission when emission is
// positive, otherwise plain glass.
func Crystal(name string, color geom.RGB, emission float64) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputMaterial)
	if emission <= 0 {
		glass := g.AddNode(KindBsdfGlass)
		glass.SetColor("Color", color).Set("IOR", 1.6).Set("Roughness", 0.01)
		g.mustLink(glass, "BSDF", out, "Surface")
		return g
	}
	mix := g.AddNode(KindMixShader)
	mix.Set("Fac", 0.45)
	glass := g.AddNode(KindBsdfGlass)
	glass.SetColor("Color", color).Set("IOR", 1.8).Set("Roughness", 0.02)
	emit := g.AddNode(KindEmission)
	emit.SetColor("Color", color).Set("Strength", emission)
	g.mustLink(glass, "BSDF", mix, "Shader")
	g.mustLink(emit, "Emission", mix, "Shader_001")
	g.mustLink(mix, "Shader", out, "Surface")
	return g
}

// Rock returns a glossy dark principled material with noise-driven bump.
func Rock(name string, color geom.RGB) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputMaterial)
	bsdf := g.AddNode(KindBsdfPrincipled)
	bsdf.SetColor("Base Color", color).Set("Roughness", 0.15).Set("Specular IOR Level", 0.8)
	noise := g.AddNode(KindTexNoise)
	noise.Set("Scale", 15).Set("Detail", 8).Set("Roughness", 0.7)
	bump := g.AddNode(KindBump)
	bump.Set("Strength", 0.3)
	g.mustLink(noise, "Fac", bump, "Height")
	g.mustLink(bump, "Normal", bsdf, "Normal")
	g.mustLink(bsdf, "BSDF", out, "Surface")
	return g
}

// DefaultMirrorTint is the tint of the corridor mirrors.
var DefaultMirrorTint = geom.RGB{R: 0.92, G: 0.92, B: 0.94}

// Mirror returns a perfect mirror: metallic, zero roughness, full specular.
func Mirror(name string, tint geom.RGB) *Graph {
	return Principled(name, PrincipledOpts{BaseColor: tint, Metallic: 1, Roughness: 0, SpecularIORLevel: 1})
}

// VolumeOpts describes a homogeneous world volume.
type VolumeOpts struct {
	Color   geom.RGB
	Density float64
}

// World returns a world tree with a background and, when volume is set, a volume
// scatter node on the Volume output.
func World(name string, bg geom.RGB, strength float64, volume *VolumeOpts) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputWorld)
	back := g.AddNode(KindBackground)
	back.SetColor("Color", bg).Set("Strength", strength)
	g.mustLink(back, "Background", out, "Surface")
	if volume != nil {
		vol := g.AddNode(KindVolumeScatter)
		vol.SetColor("Color", volume.Color).Set("Density", volume.Density)
		g.mustLink(vol, "Volume", out, "Volume")
	}
	return g
}
