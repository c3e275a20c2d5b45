package terrain

import (
	"context"

	"endless-terrain/internal/dispatch"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/noise"
)

// Role says what a detail level's mesh is used for once it arrives.
type Role int

const (
	RoleRender Role = iota
	RoleCollider
)

func (r Role) String() string {
	if r == RoleCollider {
		return "collider"
	}
	return "render"
}

type registration struct {
	index int
	role  Role
}

// registrations lists every (level, role) pair a chunk reacts to. Each level renders and
// the collider level additionally feeds collision.
func registrations(levels DetailLevels) []registration {
	colliderIndex := levels.ColliderIndex()
	regs := make([]registration, 0, len(levels)+1)
	for i := range levels {
		regs = append(regs, registration{index: i, role: RoleRender})
		if i == colliderIndex {
			regs = append(regs, registration{index: i, role: RoleCollider})
		}
	}
	return regs
}

// lodMesh caches the mesh of one detail level.
type lodMesh struct {
	lod       int
	requested bool
	mesh      *meshing.MeshData
}

func (m *lodMesh) hasMesh() bool { return m.mesh != nil }

func (m *lodMesh) request(ctx context.Context, d dispatch.Dispatcher, heights noise.Grid, settings meshing.Settings, onReady func(*meshing.MeshData)) {
	m.requested = true
	lod := m.lod
	dispatch.Request(d, ctx,
		func() (*meshing.MeshData, error) { return meshing.Build(heights, settings, lod), nil },
		func(mesh *meshing.MeshData) {
			m.mesh = mesh
			onReady(mesh)
		},
	)
}
