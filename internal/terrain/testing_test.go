package terrain

import (
	"context"
	"testing"

	"endless-terrain/internal/dispatch"
	"endless-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl64"
)

// testSettings uses 50 unit chunks (48 quads at scale 1 plus border) and a 90 unit view.
func testSettings() Settings {
	s := DefaultSettings()
	s.HeightMap.Noise.Octaves = 3
	s.Mesh = meshing.Settings{Scale: 1, ChunkSizeIndex: 0}
	s.DetailLevels = DetailLevels{
		{LOD: 0, VisibleDistanceThreshold: 30, UseForCollider: true},
		{LOD: 2, VisibleDistanceThreshold: 60},
		{LOD: 4, VisibleDistanceThreshold: 90},
	}
	return s
}

// countingDispatcher counts submissions on top of a real thread-per-request dispatcher.
type countingDispatcher struct {
	*dispatch.Requester
	submits int
}

func newCountingDispatcher() *countingDispatcher {
	return &countingDispatcher{Requester: dispatch.NewRequester(nil)}
}

func (d *countingDispatcher) Submit(ctx context.Context, work func() (any, error), onComplete func(any)) {
	d.submits++
	d.Requester.Submit(ctx, work, onComplete)
}

// drain waits for background work and delivers it.
func (d *countingDispatcher) drain(t *testing.T) {
	t.Helper()
	d.Wait()
	if err := d.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
}

type recordingSurface struct {
	meshes       []int
	collider     *meshing.MeshData
	colliderSets int
	visible      bool
	toggles      int
	destroyed    bool
}

func (r *recordingSurface) SetMesh(lod int, _ *meshing.MeshData) { r.meshes = append(r.meshes, lod) }

func (r *recordingSurface) SetCollider(m *meshing.MeshData) {
	r.collider = m
	r.colliderSets++
}

func (r *recordingSurface) SetVisible(v bool) {
	r.visible = v
	r.toggles++
}

func (r *recordingSurface) Destroy() { r.destroyed = true }

type recordingSurfaces map[Coord]*recordingSurface

func (rs recordingSurfaces) factory(coord Coord, _ mgl64.Vec2) Surface {
	s := &recordingSurface{}
	rs[coord] = s
	return s
}
