package meshing

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the rendered part of the mesh as a Wavefront OBJ with texture
// coordinates and normals. Border vertices are not written.
func (m *MeshData) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", len(m.Vertices), m.TriangleCount())
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %g %g\n", uv[0], 1-uv[1])
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}
	for i := 0; i+2 < len(m.Triangles); i += 3 {
		a, b, c := m.Triangles[i]+1, m.Triangles[i+1]+1, m.Triangles[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return bw.Flush()
}
