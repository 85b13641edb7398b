// Package scene is the scene graph the render scripts build: mesh objects, empties,
// lights and cameras with transforms and constraints, collections, node groups,
// materials, the world and render settings.
//
// Scene space is right-handed with Z up. Rotations are XYZ Euler angles in radians.
package scene

import (
	"fmt"

	"fractal-bench/internal/geom"
	"fractal-bench/internal/material"
)

// ObjectType is the kind of data an object carries.
type ObjectType string

const (
	TypeMesh   ObjectType = "MESH"
	TypeEmpty  ObjectType = "EMPTY"
	TypeLight  ObjectType = "LIGHT"
	TypeCamera ObjectType = "CAMERA"
)

// Object is one placed scene object. Exactly one of Mesh, Light, Camera is set for
// mesh, light and camera objects; empties carry none.
type Object struct {
	Name     string     `yaml:"name"`
	Type     ObjectType `yaml:"type"`
	Location geom.Vec3  `yaml:"location"`
	Rotation geom.Euler `yaml:"rotation"`
	Scale    geom.Vec3  `yaml:"scale"`

	Mesh   *Mesh   `yaml:"mesh,omitempty"`
	Light  *Light  `yaml:"light,omitempty"`
	Camera *Camera `yaml:"camera,omitempty"`

	// Materials are material slot names, resolved through the scene's library.
	Materials   []string     `yaml:"materials,omitempty"`
	Modifiers   []Modifier   `yaml:"modifiers,omitempty"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
	Collection  string       `yaml:"collection,omitempty"`
}

// ConstraintKind names a constraint type.
type ConstraintKind string

// TrackTo points the object's -Z axis at the target with +Y up.
const TrackTo ConstraintKind = "TRACK_TO"

// Constraint is an object constraint; Target is an object name.
type Constraint struct {
	Kind   ConstraintKind `yaml:"kind"`
	Target string         `yaml:"target"`
}

// Collection groups objects by name.
type Collection struct {
	Name     string   `yaml:"name"`
	Children []string `yaml:"children,omitempty"`
}

// Scene is the whole scene graph.
type Scene struct {
	Objects     []*Object
	Collections []*Collection
	NodeGroups  []*NodeGroup
	Materials   *material.Library
	World       *material.Graph
	Render      RenderSettings
	// Camera is the active camera object name.
	Camera string
}

// New returns an empty scene with default render settings.
func New() *Scene {
	return &Scene{
		Materials: material.NewLibrary(),
		Render:    DefaultRenderSettings(),
	}
}

// Clear removes every object, collection, node group, material and the world.
// Render settings are kept.
func (s *Scene) Clear() {
	s.Objects = nil
	s.Collections = nil
	s.NodeGroups = nil
	s.Materials = material.NewLibrary()
	s.World = nil
	s.Camera = ""
}

// Object returns the object with the given name, or nil.
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func (s *Scene) hasObject(name string) bool { return s.Object(name) != nil }

// add inserts o under a unique name derived from base.
func (s *Scene) add(base string, o *Object) *Object {
	o.Name = uniqueName(base, s.hasObject)
	if o.Scale == (geom.Vec3{}) {
		o.Scale = geom.V(1, 1, 1)
	}
	s.Objects = append(s.Objects, o)
	return o
}

// Rename gives o a unique name derived from name and returns it. The active camera,
// track-to targets, focus objects and collection membership follow the rename.
func (s *Scene) Rename(o *Object, name string) string {
	old := o.Name
	if name == old {
		return old
	}
	o.Name = uniqueName(name, func(n string) bool {
		x := s.Object(n)
		return x != nil && x != o
	})
	if s.Camera == old {
		s.Camera = o.Name
	}
	for _, x := range s.Objects {
		for i := range x.Constraints {
			if x.Constraints[i].Target == old {
				x.Constraints[i].Target = o.Name
			}
		}
		if x.Camera != nil && x.Camera.DOF.FocusObject == old {
			x.Camera.DOF.FocusObject = o.Name
		}
	}
	if c := s.collection(o.Collection); c != nil {
		for i, n := range c.Children {
			if n == old {
				c.Children[i] = o.Name
			}
		}
	}
	return o.Name
}

// AddCube adds a cube mesh of edge length size.
func (s *Scene) AddCube(size float64, loc geom.Vec3) *Object {
	return s.add("Cube", &Object{Type: TypeMesh, Location: loc, Mesh: &Mesh{Primitive: PrimitiveCube, Size: size}})
}

// AddUVSphere adds a UV sphere. Segments and rings below 3 use the defaults 32 and 16.
func (s *Scene) AddUVSphere(radius float64, segments, rings int, loc geom.Vec3) *Object {
	if segments < 3 {
		segments = DefaultSegments
	}
	if rings < 3 {
		rings = DefaultRings
	}
	return s.add("Sphere", &Object{Type: TypeMesh, Location: loc,
		Mesh: &Mesh{Primitive: PrimitiveUVSphere, Radius: radius, Segments: segments, Rings: rings}})
}

// AddPlane adds a square plane of edge length size facing +Z.
func (s *Scene) AddPlane(size float64, loc geom.Vec3) *Object {
	return s.add("Plane", &Object{Type: TypeMesh, Location: loc, Mesh: &Mesh{Primitive: PrimitivePlane, Size: size}})
}

// AddMesh adds a custom mesh from vertices and polygon faces (vertex index lists).
func (s *Scene) AddMesh(name string, verts []geom.Vec3, faces [][]int) (*Object, error) {
	m := &Mesh{Primitive: PrimitiveCustom, Vertices: verts, Faces: faces}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("scene: add mesh %q: %w", name, err)
	}
	return s.add(name, &Object{Type: TypeMesh, Mesh: m}), nil
}

// AddEmpty adds an empty, typically used as a constraint or focus target.
func (s *Scene) AddEmpty(name string, loc geom.Vec3) *Object {
	return s.add(name, &Object{Type: TypeEmpty, Location: loc})
}

// AddLight adds a light of the given kind with default energy and color.
func (s *Scene) AddLight(kind LightKind, loc geom.Vec3) *Object {
	l := DefaultLight(kind)
	return s.add(l.displayName(), &Object{Type: TypeLight, Location: loc, Light: &l})
}

// AddCamera adds a camera with a 50 mm lens. The first camera added becomes active.
func (s *Scene) AddCamera(loc geom.Vec3) *Object {
	c := DefaultCamera()
	o := s.add("Camera", &Object{Type: TypeCamera, Location: loc, Camera: &c})
	if s.Camera == "" {
		s.Camera = o.Name
	}
	return o
}

// ActiveCamera returns the active camera object, or nil.
func (s *Scene) ActiveCamera() *Object {
	if s.Camera == "" {
		return nil
	}
	o := s.Object(s.Camera)
	if o == nil || o.Type != TypeCamera {
		return nil
	}
	return o
}

// NewCollection adds a collection linked to the scene root.
func (s *Scene) NewCollection(name string) *Collection {
	name = uniqueName(name, func(n string) bool { return s.collection(n) != nil })
	c := &Collection{Name: name}
	s.Collections = append(s.Collections, c)
	return c
}

func (s *Scene) collection(name string) *Collection {
	for _, c := range s.Collections {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Link moves o into collection c.
func (s *Scene) Link(c *Collection, o *Object) {
	if prev := s.collection(o.Collection); prev != nil {
		for i, n := range prev.Children {
			if n == o.Name {
				prev.Children = append(prev.Children[:i], prev.Children[i+1:]...)
				break
			}
		}
	}
	o.Collection = c.Name
	c.Children = append(c.Children, o.Name)
}

// AddMaterial registers g in the scene library and appends it as a material slot of o.
// A graph already in the library is reused rather than re-added.
func (s *Scene) AddMaterial(o *Object, g *material.Graph) {
	if s.Materials.Get(g.Name) != g {
		s.Materials.Add(g)
	}
	o.Materials = append(o.Materials, g.Name)
}

// Surface returns the resolved surface of o's first material slot.
func (s *Scene) Surface(o *Object) *material.Surface {
	if len(o.Materials) == 0 {
		return material.Default()
	}
	return material.Resolve(s.Materials.Get(o.Materials[0]))
}

// SetTrackTo replaces o's constraints with a track-to on target.
func (o *Object) SetTrackTo(target *Object) {
	o.Constraints = []Constraint{{Kind: TrackTo, Target: target.Name}}
}

// AddModifier appends a modifier of the given kind with its defaults and a unique name.
func (o *Object) AddModifier(kind ModifierKind) (*Modifier, error) {
	if o.Type != TypeMesh {
		return nil, fmt.Errorf("scene: %s: modifiers need a mesh object", o.Name)
	}
	m, err := newModifier(kind)
	if err != nil {
		return nil, err
	}
	m.Name = uniqueName(m.Name, func(n string) bool {
		for _, x := range o.Modifiers {
			if x.Name == n {
				return true
			}
		}
		return false
	})
	o.Modifiers = append(o.Modifiers, m)
	return &o.Modifiers[len(o.Modifiers)-1], nil
}

// Matrix returns the object's world rotation-scale matrix. A track-to constraint
// replaces the rotation; scale is kept.
func (s *Scene) Matrix(o *Object) geom.Mat3 {
	return s.Rotation(o).Mul(geom.ScaleMatrix(o.Scale))
}

// Rotation returns the object's world rotation after constraints.
func (s *Scene) Rotation(o *Object) geom.Mat3 {
	for _, c := range o.Constraints {
		if c.Kind != TrackTo {
			continue
		}
		if t := s.Object(c.Target); t != nil && t != o {
			return geom.TrackTo(o.Location, t.Location)
		}
	}
	return o.Rotation.Matrix()
}

// ToWorld maps a local point of o to scene space.
func (s *Scene) ToWorld(o *Object, p geom.Vec3) geom.Vec3 {
	return s.Matrix(o).MulVec(p).Add(o.Location)
}

// Counts tallies objects by type.
func (s *Scene) Counts() map[ObjectType]int {
	out := map[ObjectType]int{}
	for _, o := range s.Objects {
		out[o.Type]++
	}
	return out
}

// ObjectsOf returns every object of type t in insertion order.
func (s *Scene) ObjectsOf(t ObjectType) []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if o.Type == t {
			out = append(out, o)
		}
	}
	return out
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
