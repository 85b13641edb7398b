package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"fractal-bench/internal/material"
)

// ProjectVersion is written into every project file.
const ProjectVersion = 1

// project is the on-disk shape of a scene.
type project struct {
	Version     int               `yaml:"version"`
	Camera      string            `yaml:"camera,omitempty"`
	Render      RenderSettings    `yaml:"render"`
	World       *material.Graph   `yaml:"world,omitempty"`
	Materials   []*material.Graph `yaml:"materials,omitempty"`
	NodeGroups  []*NodeGroup      `yaml:"node_groups,omitempty"`
	Collections []*Collection     `yaml:"collections,omitempty"`
	Objects     []*Object         `yaml:"objects"`
}

// Marshal encodes the scene as a YAML project file.
func (s *Scene) Marshal() ([]byte, error) {
	p := project{
		Version:     ProjectVersion,
		Camera:      s.Camera,
		Render:      s.Render,
		World:       s.World,
		Materials:   s.Materials.All(),
		NodeGroups:  s.NodeGroups,
		Collections: s.Collections,
		Objects:     s.Objects,
	}
	data, err := yaml.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("scene: marshal project: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a project file written by Marshal.
func Unmarshal(data []byte) (*Scene, error) {
	var p project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("scene: parse project: %w", err)
	}
	if p.Version != ProjectVersion {
		return nil, fmt.Errorf("scene: unsupported project version %d", p.Version)
	}
	s := New()
	s.Camera = p.Camera
	s.Render = p.Render
	s.World = p.World
	s.NodeGroups = p.NodeGroups
	s.Collections = p.Collections
	s.Objects = p.Objects
	for _, g := range p.Materials {
		s.Materials.Add(g)
	}
	for _, o := range s.Objects {
		if o.Mesh == nil {
			continue
		}
		if err := o.Mesh.Validate(); err != nil {
			return nil, fmt.Errorf("scene: object %s: %w", o.Name, err)
		}
	}
	return s, nil
}
