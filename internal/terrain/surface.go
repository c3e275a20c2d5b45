package terrain

import (
	"endless-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl64"
)

// Surface is where a chunk's meshes end up: a renderer, a physics world, or nothing.
// All methods are called from the goroutine that drives the streamer.
type Surface interface {
	SetMesh(lod int, mesh *meshing.MeshData)
	SetCollider(mesh *meshing.MeshData)
	SetVisible(visible bool)
	Destroy()
}

// SurfaceFactory creates the surface for a new chunk placed at a world XZ position.
type SurfaceFactory func(coord Coord, position mgl64.Vec2) Surface

// NopSurface discards everything.
type NopSurface struct{}

func (NopSurface) SetMesh(int, *meshing.MeshData) {}
func (NopSurface) SetCollider(*meshing.MeshData) {}
func (NopSurface) SetVisible(bool) {}
func (NopSurface) Destroy() {}

// NopSurfaces is a SurfaceFactory for headless use.
func NopSurfaces(Coord, mgl64.Vec2) Surface { return NopSurface{} }
