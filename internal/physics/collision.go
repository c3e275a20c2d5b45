// Package physics answers ground queries against chunk collision meshes.
package physics

import (
	"math"
	"sync"

	"endless-terrain/internal/meshing"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

// Ground reports the terrain height under a world XZ position.
type Ground interface {
	HeightAt(x, z float64) (float64, bool)
}

// MeshCollider is a collision mesh placed at a chunk's world position.
type MeshCollider struct {
	mesh   *meshing.MeshData
	origin mgl64.Vec2
	min    mgl64.Vec2
	max    mgl64.Vec2
}

// NewMeshCollider wraps mesh, whose vertices are relative to origin on the XZ plane.
func NewMeshCollider(mesh *meshing.MeshData, origin mgl64.Vec2) *MeshCollider {
	c := &MeshCollider{
		mesh:   mesh,
		origin: origin,
		min:    mgl64.Vec2{math.Inf(1), math.Inf(1)},
		max:    mgl64.Vec2{math.Inf(-1), math.Inf(-1)},
	}
	for _, v := range mesh.Vertices {
		x, z := origin.X()+float64(v.X()), origin.Y()+float64(v.Z())
		c.min = mgl64.Vec2{math.Min(c.min.X(), x), math.Min(c.min.Y(), z)}
		c.max = mgl64.Vec2{math.Max(c.max.X(), x), math.Max(c.max.Y(), z)}
	}
	return c
}

// Contains reports whether x,z lies within the collider's footprint.
func (c *MeshCollider) Contains(x, z float64) bool {
	return x >= c.min.X() && x <= c.max.X() && z >= c.min.Y() && z <= c.max.Y()
}

// HeightAt interpolates the height of the triangle under x,z.
func (c *MeshCollider) HeightAt(x, z float64) (float64, bool) {
	if !c.Contains(x, z) {
		return 0, false
	}
	defer profiling.Track("physics.HeightAt")()

	px, pz := x-c.origin.X(), z-c.origin.Y()
	tris := c.mesh.Triangles
	for i := 0; i+2 < len(tris); i += 3 {
		a := c.mesh.Vertices[tris[i]]
		b := c.mesh.Vertices[tris[i+1]]
		d := c.mesh.Vertices[tris[i+2]]
		if h, ok := heightInTriangle(px, pz, a, b, d); ok {
			return h, true
		}
	}
	return 0, false
}

// heightInTriangle projects the triangle onto XZ and, if it covers p, returns the
// barycentric height at p.
func heightInTriangle(px, pz float64, a, b, c [3]float32) (float64, bool) {
	ax, az := float64(a[0]), float64(a[2])
	bx, bz := float64(b[0]), float64(b[2])
	cx, cz := float64(c[0]), float64(c[2])

	det := (bz-cz)*(ax-cx) + (cx-bx)*(az-cz)
	if math.Abs(det) < 1e-12 {
		return 0, false
	}
	const eps = 1e-9
	u := ((bz-cz)*(px-cx) + (cx-bx)*(pz-cz)) / det
	v := ((cz-az)*(px-cx) + (ax-cx)*(pz-cz)) / det
	w := 1 - u - v
	if u < -eps || v < -eps || w < -eps {
		return 0, false
	}
	return u*float64(a[1]) + v*float64(b[1]) + w*float64(c[1]), true
}

// ColliderSet holds the committed collision meshes of the streamed chunks. It is safe for
// concurrent use.
type ColliderSet struct {
	mu        sync.RWMutex
	colliders map[terrain.Coord]*MeshCollider
}

// NewColliderSet creates an empty set.
func NewColliderSet() *ColliderSet {
	return &ColliderSet{colliders: make(map[terrain.Coord]*MeshCollider)}
}

// Add places a chunk's collider, replacing any previous one for coord.
func (s *ColliderSet) Add(coord terrain.Coord, c *MeshCollider) {
	s.mu.Lock()
	s.colliders[coord] = c
	s.mu.Unlock()
}

// Remove drops the collider of coord.
func (s *ColliderSet) Remove(coord terrain.Coord) {
	s.mu.Lock()
	delete(s.colliders, coord)
	s.mu.Unlock()
}

// Len returns the number of colliders.
func (s *ColliderSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.colliders)
}

// HeightAt asks every collider whose footprint contains x,z. Adjacent chunks share
// their edge vertices, so any match will do.
func (s *ColliderSet) HeightAt(x, z float64) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.colliders {
		if h, ok := c.HeightAt(x, z); ok {
			return h, true
		}
	}
	return 0, false
}

// FindGroundLevel returns the ground height under x,z, or fallback when no collider
// covers it.
func FindGroundLevel(x, z float64, ground Ground, fallback float64) float64 {
	if h, ok := ground.HeightAt(x, z); ok {
		return h
	}
	return fallback
}
