package scene

import (
	"fractal-bench/internal/fractal"
	"fractal-bench/internal/material"
)

// Realizer turns fractal leaves into scene objects as the generators emit them.
// Materials are cycled by the generator's material index rule; Collection, when set,
// receives every realized object.
type Realizer struct {
	Scene      *Scene
	Materials  []*material.Graph
	Collection *Collection
	Smooth     bool

	objects []*Object
}

// Cube realizes one Menger sponge leaf as a cube primitive.
func (r *Realizer) Cube(_ int, leaf fractal.Cube) {
	o := r.Scene.AddCube(leaf.Size, leaf.Center)
	if len(r.Materials) > 0 {
		r.Scene.AddMaterial(o, r.Materials[fractal.MengerMaterialIndex(leaf.Center, len(r.Materials))])
	}
	r.place(o)
}

// Tetra realizes one Sierpinski leaf as a four-face mesh.
func (r *Realizer) Tetra(index int, leaf fractal.Tetra) {
	v := leaf.Vertices()
	faces := make([][]int, len(fractal.TetraFaces))
	for i, f := range fractal.TetraFaces {
		faces[i] = []int{f[0], f[1], f[2]}
	}
	o := r.Scene.add("Tetra", &Object{
		Type: TypeMesh,
		Mesh: &Mesh{Primitive: PrimitiveCustom, Vertices: v[:], Faces: faces},
	})
	if len(r.Materials) > 0 {
		r.Scene.AddMaterial(o, r.Materials[fractal.SierpinskiMaterialIndex(index, len(r.Materials))])
	}
	r.place(o)
}

func (r *Realizer) place(o *Object) {
	if o.Mesh != nil {
		o.Mesh.Smooth = r.Smooth
	}
	if r.Collection != nil {
		r.Scene.Link(r.Collection, o)
	}
	r.objects = append(r.objects, o)
}

// Objects returns the objects realized so far.
func (r *Realizer) Objects() []*Object { return r.objects }
