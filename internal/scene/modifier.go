package scene

import (
	"fmt"

	"fractal-bench/internal/geom"
)

// ModifierKind names a modifier type.
type ModifierKind string

const (
	ModifierSubsurf ModifierKind = "SUBSURF"
	ModifierNodes   ModifierKind = "NODES"
)

// Modifier is a mesh modifier. Subsurf uses Levels; Nodes evaluates NodeGroup.
type Modifier struct {
	Name      string       `yaml:"name"`
	Kind      ModifierKind `yaml:"kind"`
	Levels    int          `yaml:"levels,omitempty"`
	NodeGroup string       `yaml:"node_group,omitempty"`
}

func newModifier(kind ModifierKind) (Modifier, error) {
	switch kind {
	case ModifierSubsurf:
		return Modifier{Name: "Subdivision", Kind: kind, Levels: 1}, nil
	case ModifierNodes:
		return Modifier{Name: "GeometryNodes", Kind: kind}, nil
	default:
		return Modifier{}, fmt.Errorf("scene: unknown modifier %q", kind)
	}
}

// Evaluated returns o's mesh geometry in local space after its modifier stack.
func (s *Scene) Evaluated(o *Object) ([]geom.Vec3, [][]int, error) {
	if o.Mesh == nil {
		return nil, nil, nil
	}
	verts, faces := o.Mesh.Geometry()
	for _, m := range o.Modifiers {
		switch m.Kind {
		case ModifierSubsurf:
			verts, faces = Subdivide(verts, faces, m.Levels)
		case ModifierNodes:
			if m.NodeGroup == "" {
				continue
			}
			g := s.NodeGroup(m.NodeGroup)
			if g == nil {
				return nil, nil, fmt.Errorf("scene: %s: modifier %s: no node group %q", o.Name, m.Name, m.NodeGroup)
			}
			var err error
			verts, err = g.EvaluateGeometry(verts)
			if err != nil {
				return nil, nil, fmt.Errorf("scene: %s: modifier %s: %w", o.Name, m.Name, err)
			}
		}
	}
	return verts, faces, nil
}
