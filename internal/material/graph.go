// Package material holds node-graph shading descriptions. A Graph is a set of typed
// nodes with default input values and links between output and input sockets; the
// builders in this package assemble the graphs the render scripts use, and Resolve
// flattens a graph into the Surface model the render engines shade with.
package material

import (
	"fmt"

	"fractal-bench/internal/geom"
)

// Kind names a node type.
type Kind string

const (
	KindOutputMaterial Kind = "ShaderNodeOutputMaterial"
	KindOutputWorld    Kind = "ShaderNodeOutputWorld"
	KindBsdfGlass      Kind = "ShaderNodeBsdfGlass"
	KindBsdfPrincipled Kind = "ShaderNodeBsdfPrincipled"
	KindEmission       Kind = "ShaderNodeEmission"
	KindMixShader      Kind = "ShaderNodeMixShader"
	KindTexNoise       Kind = "ShaderNodeTexNoise"
	KindBump           Kind = "ShaderNodeBump"
	KindBackground     Kind = "ShaderNodeBackground"
	KindVolumeScatter  Kind = "ShaderNodeVolumeScatter"
)

// socketDef is one input socket and its default. Color sockets carry an RGB default,
// shader and vector sockets have no default and are only meaningful when linked.
type socketDef struct {
	name  string
	kind  socketKind
	value float64
	color geom.RGB
}

type socketKind int

const (
	socketFloat socketKind = iota
	socketColor
	socketShader
	socketVector
)

type nodeDef struct {
	label   string
	inputs  []socketDef
	outputs []string
}

var white = geom.RGB{R: 1, G: 1, B: 1}

var defs = map[Kind]nodeDef{
	KindOutputMaterial: {
		label:  "Material Output",
		inputs: []socketDef{{name: "Surface", kind: socketShader}, {name: "Volume", kind: socketShader}},
	},
	KindOutputWorld: {
		label:  "World Output",
		inputs: []socketDef{{name: "Surface", kind: socketShader}, {name: "Volume", kind: socketShader}},
	},
	KindBsdfGlass: {
		label: "Glass BSDF",
		inputs: []socketDef{
			{name: "Color", kind: socketColor, color: white},
			{name: "Roughness", kind: socketFloat, value: 0},
			{name: "IOR", kind: socketFloat, value: 1.5},
			{name: "Normal", kind: socketVector},
		},
		outputs: []string{"BSDF"},
	},
	KindBsdfPrincipled: {
		label: "Principled BSDF",
		inputs: []socketDef{
			{name: "Base Color", kind: socketColor, color: geom.RGB{R: 0.8, G: 0.8, B: 0.8}},
			{name: "Metallic", kind: socketFloat, value: 0},
			{name: "Roughness", kind: socketFloat, value: 0.5},
			{name: "IOR", kind: socketFloat, value: 1.5},
			{name: "Normal", kind: socketVector},
			{name: "Subsurface Weight", kind: socketFloat, value: 0},
			{name: "Subsurface Radius", kind: socketColor, color: geom.RGB{R: 1, G: 0.2, B: 0.1}},
			{name: "Subsurface Scale", kind: socketFloat, value: 0.05},
			{name: "Specular IOR Level", kind: socketFloat, value: 0.5},
			{name: "Transmission Weight", kind: socketFloat, value: 0},
			{name: "Emission Color", kind: socketColor, color: white},
			{name: "Emission Strength", kind: socketFloat, value: 0},
		},
		outputs: []string{"BSDF"},
	},
	KindEmission: {
		label: "Emission",
		inputs: []socketDef{
			{name: "Color", kind: socketColor, color: white},
			{name: "Strength", kind: socketFloat, value: 1},
		},
		outputs: []string{"Emission"},
	},
	KindMixShader: {
		label: "Mix Shader",
		inputs: []socketDef{
			{name: "Fac", kind: socketFloat, value: 0.5},
			{name: "Shader", kind: socketShader},
			{name: "Shader_001", kind: socketShader},
		},
		outputs: []string{"Shader"},
	},
	KindTexNoise: {
		label: "Noise Texture",
		inputs: []socketDef{
			{name: "Vector", kind: socketVector},
			{name: "Scale", kind: socketFloat, value: 5},
			{name: "Detail", kind: socketFloat, value: 2},
			{name: "Roughness", kind: socketFloat, value: 0.5},
			{name: "Lacunarity", kind: socketFloat, value: 2},
		},
		outputs: []string{"Fac", "Color"},
	},
	KindBump: {
		label: "Bump",
		inputs: []socketDef{
			{name: "Strength", kind: socketFloat, value: 1},
			{name: "Distance", kind: socketFloat, value: 1},
			{name: "Height", kind: socketFloat, value: 1},
			{name: "Normal", kind: socketVector},
		},
		outputs: []string{"Normal"},
	},
	KindBackground: {
		label: "Background",
		inputs: []socketDef{
			{name: "Color", kind: socketColor, color: geom.RGB{R: 0.05, G: 0.05, B: 0.05}},
			{name: "Strength", kind: socketFloat, value: 1},
		},
		outputs: []string{"Background"},
	},
	KindVolumeScatter: {
		label: "Volume Scatter",
		inputs: []socketDef{
			{name: "Color", kind: socketColor, color: white},
			{name: "Density", kind: socketFloat, value: 1},
			{name: "Anisotropy", kind: socketFloat, value: 0},
		},
		outputs: []string{"Volume"},
	},
}

// Node is one node of a graph. Values holds float inputs, Colors holds color inputs;
// both start at the node type's defaults.
type Node struct {
	Name   string              `yaml:"name"`
	Kind   Kind                `yaml:"kind"`
	Values map[string]float64  `yaml:"values,omitempty"`
	Colors map[string]geom.RGB `yaml:"colors,omitempty"`
}

// Link connects an output socket of one node to an input socket of another.
type Link struct {
	FromNode   string `yaml:"from_node"`
	FromSocket string `yaml:"from_socket"`
	ToNode     string `yaml:"to_node"`
	ToSocket   string `yaml:"to_socket"`
}

// Graph is a material or world node tree.
type Graph struct {
	Name     string  `yaml:"name"`
	UseNodes bool    `yaml:"use_nodes"`
	Nodes    []*Node `yaml:"nodes"`
	Links    []Link  `yaml:"links"`
}

// New returns a node material with the default tree: a Principled BSDF linked to a
// Material Output.
func New(name string) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputMaterial)
	bsdf := g.AddNode(KindBsdfPrincipled)
	g.mustLink(bsdf, "BSDF", out, "Surface")
	return g
}

// NewWorld returns a world tree with a grey Background linked to a World Output.
func NewWorld(name string) *Graph {
	g := &Graph{Name: name, UseNodes: true}
	out := g.AddNode(KindOutputWorld)
	bg := g.AddNode(KindBackground)
	g.mustLink(bg, "Background", out, "Surface")
	return g
}

// Clear removes every node and link.
func (g *Graph) Clear() {
	g.Nodes = nil
	g.Links = nil
}

// AddNode adds a node of kind with default inputs. Names are unique within the graph:
// a second Emission node is named "Emission.001". Unknown kinds panic.
func (g *Graph) AddNode(kind Kind) *Node {
	def, ok := defs[kind]
	if !ok {
		panic(fmt.Sprintf("material: unknown node kind %q", kind))
	}
	n := &Node{
		Name:   uniqueName(def.label, g.hasNode),
		Kind:   kind,
		Values: map[string]float64{},
		Colors: map[string]geom.RGB{},
	}
	for _, s := range def.inputs {
		switch s.kind {
		case socketFloat:
			n.Values[s.name] = s.value
		case socketColor:
			n.Colors[s.name] = s.color
		}
	}
	g.Nodes = append(g.Nodes, n)
	return n
}

func (g *Graph) hasNode(name string) bool {
	return g.Node(name) != nil
}

// Node returns the node with the given name, or nil.
func (g *Graph) Node(name string) *Node {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NodesOf returns every node of the given kind in insertion order.
func (g *Graph) NodesOf(kind Kind) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Link connects from's output socket to to's input socket. An input accepts one link;
// relinking replaces the previous one.
func (g *Graph) Link(from *Node, output string, to *Node, input string) error {
	if from == nil || to == nil {
		return fmt.Errorf("material: link %q: nil node", g.Name)
	}
	if !hasOutput(from.Kind, output) {
		return fmt.Errorf("material: %s has no output %q", from.Name, output)
	}
	if _, ok := inputDef(to.Kind, input); !ok {
		return fmt.Errorf("material: %s has no input %q", to.Name, input)
	}
	for i, l := range g.Links {
		if l.ToNode == to.Name && l.ToSocket == input {
			g.Links = append(g.Links[:i], g.Links[i+1:]...)
			break
		}
	}
	g.Links = append(g.Links, Link{FromNode: from.Name, FromSocket: output, ToNode: to.Name, ToSocket: input})
	return nil
}

func (g *Graph) mustLink(from *Node, output string, to *Node, input string) {
	if err := g.Link(from, output, to, input); err != nil {
		panic(err)
	}
}

// linked returns the node and socket feeding input of node, if any.
func (g *Graph) linked(node *Node, input string) (*Node, string, bool) {
	for _, l := range g.Links {
		if l.ToNode == node.Name && l.ToSocket == input {
			if from := g.Node(l.FromNode); from != nil {
				return from, l.FromSocket, true
			}
		}
	}
	return nil, "", false
}

// Output returns the first output node of the graph (material or world), or nil.
func (g *Graph) Output() *Node {
	for _, n := range g.Nodes {
		if n.Kind == KindOutputMaterial || n.Kind == KindOutputWorld {
			return n
		}
	}
	return nil
}

// Validate checks that every link refers to existing nodes and sockets.
func (g *Graph) Validate() error {
	for _, l := range g.Links {
		from, to := g.Node(l.FromNode), g.Node(l.ToNode)
		if from == nil || to == nil {
			return fmt.Errorf("material: %s: dangling link %s -> %s", g.Name, l.FromNode, l.ToNode)
		}
		if !hasOutput(from.Kind, l.FromSocket) {
			return fmt.Errorf("material: %s: %s has no output %q", g.Name, from.Name, l.FromSocket)
		}
		if _, ok := inputDef(to.Kind, l.ToSocket); !ok {
			return fmt.Errorf("material: %s: %s has no input %q", g.Name, to.Name, l.ToSocket)
		}
	}
	return nil
}

// Set sets a float input. It panics if the node has no float input of that name.
func (n *Node) Set(input string, v float64) *Node {
	if s, ok := inputDef(n.Kind, input); !ok || s.kind != socketFloat {
		panic(fmt.Sprintf("material: %s has no float input %q", n.Name, input))
	}
	n.Values[input] = v
	return n
}

// SetColor sets a color input. It panics if the node has no color input of that name.
func (n *Node) SetColor(input string, c geom.RGB) *Node {
	if s, ok := inputDef(n.Kind, input); !ok || s.kind != socketColor {
		panic(fmt.Sprintf("material: %s has no color input %q", n.Name, input))
	}
	n.Colors[input] = c
	return n
}

// Float returns the float input's value, falling back to the type default.
func (n *Node) Float(input string) float64 {
	if v, ok := n.Values[input]; ok {
		return v
	}
	s, _ := inputDef(n.Kind, input)
	return s.value
}

// Color returns the color input's value, falling back to the type default.
func (n *Node) Color(input string) geom.RGB {
	if c, ok := n.Colors[input]; ok {
		return c
	}
	s, _ := inputDef(n.Kind, input)
	return s.color
}

func inputDef(kind Kind, name string) (socketDef, bool) {
	for _, s := range defs[kind].inputs {
		if s.name == name {
			return s, true
		}
	}
	return socketDef{}, false
}

func hasOutput(kind Kind, name string) bool {
	for _, o := range defs[kind].outputs {
		if o == name {
			return true
		}
	}
	return false
}

// uniqueName returns base, or base.001, base.002 ... if taken.
func uniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if !taken(name) {
			return name
		}
	}
}
