package scene

import (
	"bufio"
	"fmt"
	"io"
)

// ExportOBJ writes every mesh object as Wavefront OBJ in scene space, with its
// modifier stack applied. Face indices are 1-based and global across objects.
func (s *Scene) ExportOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# fractal-bench OBJ")
	base := 1
	for _, o := range s.ObjectsOf(TypeMesh) {
		verts, faces, err := s.Evaluated(o)
		if err != nil {
			return fmt.Errorf("scene: export obj: %w", err)
		}
		fmt.Fprintf(bw, "o %s\n", o.Name)
		for _, v := range verts {
			p := s.ToWorld(o, v)
			fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", p.X, p.Y, p.Z)
		}
		if len(o.Materials) > 0 {
			fmt.Fprintf(bw, "usemtl %s\n", o.Materials[0])
		}
		if o.Mesh.Smooth {
			fmt.Fprintln(bw, "s 1")
		} else {
			fmt.Fprintln(bw, "s off")
		}
		for _, f := range faces {
			bw.WriteString("f")
			for _, idx := range f {
				fmt.Fprintf(bw, " %d", idx+base)
			}
			bw.WriteString("\n")
		}
		base += len(verts)
	}
	return bw.Flush()
}
