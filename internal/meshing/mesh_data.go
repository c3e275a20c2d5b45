package meshing

import "github.com/go-gl/mathgl/mgl32"

// VertexStride is number of float32 per interleaved vertex (pos.xyz + normal.xyz)
const VertexStride = 6

// MeshData is an indexed triangle mesh. Vertices, UVs and Normals are parallel slices;
// Triangles holds counter-clockwise index triples into them.
//
// Border vertices live outside the rendered mesh. They carry negative indices while the
// mesh is being built (-1 is BorderVertices[0]) and only contribute to normals.
type MeshData struct {
	Vertices  []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Triangles []uint32

	BorderVertices  []mgl32.Vec3
	BorderTriangles [][3]int

	flatShaded bool
}

func newMeshData(numVertsPerLine, skip int, flat bool) *MeshData {
	meshEdgeVertices := (numVertsPerLine-2)*4 - 4
	edgeConnectionVertices := (skip - 1) * (numVertsPerLine - 5) / skip * 4
	mainVerticesPerLine := (numVertsPerLine-5)/skip + 1
	mainVertices := mainVerticesPerLine * mainVerticesPerLine
	numVertices := meshEdgeVertices + edgeConnectionVertices + mainVertices

	meshEdgeTriangles := 8 * (numVertsPerLine - 4)
	mainTriangles := (mainVerticesPerLine - 1) * (mainVerticesPerLine - 1) * 2
	numTriangles := meshEdgeTriangles + mainTriangles

	return &MeshData{
		Vertices:        make([]mgl32.Vec3, numVertices),
		UVs:             make([]mgl32.Vec2, numVertices),
		Triangles:       make([]uint32, 0, numTriangles*3),
		BorderVertices:  make([]mgl32.Vec3, numVertsPerLine*4-4),
		BorderTriangles: make([][3]int, 0, 8*(numVertsPerLine-2)),
		flatShaded:      flat,
	}
}

func (m *MeshData) addVertex(pos mgl32.Vec3, uv mgl32.Vec2, index int) {
	if index < 0 {
		m.BorderVertices[-index-1] = pos
		return
	}
	m.Vertices[index] = pos
	m.UVs[index] = uv
}

func (m *MeshData) addTriangle(a, b, c int) {
	if a < 0 || b < 0 || c < 0 {
		m.BorderTriangles = append(m.BorderTriangles, [3]int{a, b, c})
		return
	}
	m.Triangles = append(m.Triangles, uint32(a), uint32(b), uint32(c))
}

func (m *MeshData) position(index int) mgl32.Vec3 {
	if index < 0 {
		return m.BorderVertices[-index-1]
	}
	return m.Vertices[index]
}

func (m *MeshData) surfaceNormal(a, b, c int) mgl32.Vec3 {
	pa, pb, pc := m.position(a), m.position(b), m.position(c)
	return pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
}

// bakeNormals sums face normals onto the rendered vertices, including faces that touch
// the border so normals match across chunk edges.
func (m *MeshData) bakeNormals() {
	normals := make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i < len(m.Triangles); i += 3 {
		a, b, c := int(m.Triangles[i]), int(m.Triangles[i+1]), int(m.Triangles[i+2])
		n := m.surfaceNormal(a, b, c)
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}
	for _, tri := range m.BorderTriangles {
		n := m.surfaceNormal(tri[0], tri[1], tri[2])
		for _, idx := range tri {
			if idx >= 0 {
				normals[idx] = normals[idx].Add(n)
			}
		}
	}
	for i := range normals {
		if normals[i].Len() > 0 {
			normals[i] = normals[i].Normalize()
		}
	}
	m.Normals = normals
}

// flatShade gives every triangle its own three vertices so normals are not shared.
func (m *MeshData) flatShade() {
	vertices := make([]mgl32.Vec3, len(m.Triangles))
	uvs := make([]mgl32.Vec2, len(m.Triangles))
	normals := make([]mgl32.Vec3, len(m.Triangles))
	for i := 0; i < len(m.Triangles); i += 3 {
		a, b, c := m.Triangles[i], m.Triangles[i+1], m.Triangles[i+2]
		vertices[i], vertices[i+1], vertices[i+2] = m.Vertices[a], m.Vertices[b], m.Vertices[c]
		uvs[i], uvs[i+1], uvs[i+2] = m.UVs[a], m.UVs[b], m.UVs[c]

		n := vertices[i+1].Sub(vertices[i]).Cross(vertices[i+2].Sub(vertices[i])).Normalize()
		normals[i], normals[i+1], normals[i+2] = n, n, n

		m.Triangles[i], m.Triangles[i+1], m.Triangles[i+2] = uint32(i), uint32(i+1), uint32(i+2)
	}
	m.Vertices = vertices
	m.UVs = uvs
	m.Normals = normals
}

func (m *MeshData) finalize() {
	if m.flatShaded {
		m.flatShade()
		return
	}
	m.bakeNormals()
}

// FlatShaded reports whether vertices are unshared per triangle.
func (m *MeshData) FlatShaded() bool { return m.flatShaded }

// TriangleCount returns the number of rendered triangles.
func (m *MeshData) TriangleCount() int { return len(m.Triangles) / 3 }

// Interleaved expands the indexed mesh into a triangle list of pos+normal floats,
// VertexStride floats per vertex.
func (m *MeshData) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Triangles)*VertexStride)
	for _, idx := range m.Triangles {
		p, n := m.Vertices[idx], m.Normals[idx]
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}
