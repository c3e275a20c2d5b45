package main

import (
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/physics"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

// countingSurfaces stands in for a renderer and a physics world. It tallies what chunks
// hand it and keeps their colliders for ground queries.
type countingSurfaces struct {
	created   int
	destroyed int
	shown     int
	meshes    [meshing.NumSupportedLODs]int
	colliders int
	triangles int

	ground *physics.ColliderSet
}

func newCountingSurfaces() *countingSurfaces {
	return &countingSurfaces{ground: physics.NewColliderSet()}
}

func (c *countingSurfaces) New(coord terrain.Coord, position mgl64.Vec2) terrain.Surface {
	c.created++
	return &countingSurface{owner: c, coord: coord, position: position}
}

type countingSurface struct {
	owner    *countingSurfaces
	coord    terrain.Coord
	position mgl64.Vec2
	visible  bool
}

func (s *countingSurface) SetMesh(lod int, mesh *meshing.MeshData) {
	s.owner.meshes[lod]++
	s.owner.triangles += mesh.TriangleCount()
}

func (s *countingSurface) SetCollider(mesh *meshing.MeshData) {
	s.owner.colliders++
	s.owner.ground.Add(s.coord, physics.NewMeshCollider(mesh, s.position))
}

func (s *countingSurface) SetVisible(visible bool) {
	if visible == s.visible {
		return
	}
	s.visible = visible
	if visible {
		s.owner.shown++
	} else {
		s.owner.shown--
	}
}

func (s *countingSurface) Destroy() {
	s.SetVisible(false)
	s.owner.ground.Remove(s.coord)
	s.owner.destroyed++
}
