package terrain

import (
	"context"
	"fmt"
	"math"

	"endless-terrain/internal/dispatch"
	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/meshing"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// DefaultColliderGenerationDistance is how close the viewer must be to a chunk's edge
// before its collision mesh is committed.
const DefaultColliderGenerationDistance = 5.0

// Settings is the immutable generation input shared by all chunks.
type Settings struct {
	HeightMap                  heightmap.Settings `yaml:"height_map"`
	Mesh                       meshing.Settings   `yaml:"mesh"`
	DetailLevels               DetailLevels       `yaml:"detail_levels"`
	ColliderGenerationDistance float64            `yaml:"collider_generation_distance"`
}

// DefaultSettings combines the defaults of every generation stage.
func DefaultSettings() Settings {
	return Settings{
		HeightMap:                  heightmap.DefaultSettings(),
		Mesh:                       meshing.DefaultSettings(),
		DetailLevels:               DefaultDetailLevels(),
		ColliderGenerationDistance: DefaultColliderGenerationDistance,
	}
}

// Validate rejects settings that would make generation fail. Noise parameters are
// clamped at use instead.
func (s Settings) Validate() error {
	if err := s.Mesh.Validate(); err != nil {
		return err
	}
	if err := s.DetailLevels.Validate(); err != nil {
		return err
	}
	n := s.Mesh.NumVertsPerLine()
	for _, l := range s.DetailLevels {
		if skip := meshing.SkipIncrement(l.LOD); (n-5)%skip != 0 {
			return fmt.Errorf("%w: lod %d does not divide chunk size %d", ErrInvalidDetailLevels, l.LOD, n-5)
		}
	}
	if s.ColliderGenerationDistance < 0 {
		return fmt.Errorf("terrain: negative collider generation distance %v", s.ColliderGenerationDistance)
	}
	return nil
}

// Phase is the height map progress of a chunk.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseHeightMapPending
	PhaseHeightMapReady
)

func (p Phase) String() string {
	switch p {
	case PhaseHeightMapPending:
		return "height map pending"
	case PhaseHeightMapReady:
		return "height map ready"
	default:
		return "created"
	}
}

// ChunkOptions are a chunk's collaborators.
type ChunkOptions struct {
	Dispatcher dispatch.Dispatcher
	Surface    Surface
	// Viewer reports the current viewer position when results arrive between updates.
	Viewer func() mgl64.Vec2
	// OnVisibilityChanged is called on every visible/hidden transition.
	OnVisibilityChanged func(c *Chunk, visible bool)
	Log                 *zap.Logger
}

// Chunk is one terrain tile. It generates its height map and per-LOD meshes through the
// dispatcher and picks which mesh to show from the viewer's distance. Every method must
// be called from the goroutine that drains the dispatcher.
type Chunk struct {
	Coord Coord

	settings     Settings
	opts         ChunkOptions
	bounds       Bounds
	sampleCenter mgl64.Vec2

	ctx    context.Context
	cancel context.CancelFunc

	phase     Phase
	heightMap heightmap.HeightMap

	lodMeshes     []*lodMesh
	registrations []registration
	colliderIndex int
	maxViewDist   float64

	previousLOD    int
	visible        bool
	hasSetCollider bool
	closed         bool
}

// NewChunk creates an idle chunk. Call Load to start generating it.
func NewChunk(coord Coord, settings Settings, opts ChunkOptions) *Chunk {
	if opts.Dispatcher == nil {
		panic("terrain: chunk needs a dispatcher")
	}
	if opts.Surface == nil {
		opts.Surface = NopSurface{}
	}
	if opts.Viewer == nil {
		opts.Viewer = func() mgl64.Vec2 { return mgl64.Vec2{} }
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	meshWorldSize := settings.Mesh.MeshWorldSize()
	// Sample in grid units so neighbouring chunks hit the exact same coordinates on
	// their shared edge.
	span := settings.Mesh.NumVertsPerLine() - 3

	ctx, cancel := context.WithCancel(context.Background())
	c := &Chunk{
		Coord:         coord,
		settings:      settings,
		opts:          opts,
		bounds:        Bounds{Center: coord.vec().Mul(meshWorldSize), Extent: meshWorldSize / 2},
		sampleCenter:  mgl64.Vec2{float64(coord.X * span), float64(coord.Y * span)},
		ctx:           ctx,
		cancel:        cancel,
		registrations: registrations(settings.DetailLevels),
		colliderIndex: settings.DetailLevels.ColliderIndex(),
		maxViewDist:   settings.DetailLevels.MaxViewDistance(),
		previousLOD:   -1,
	}
	c.lodMeshes = make([]*lodMesh, len(settings.DetailLevels))
	for i, l := range settings.DetailLevels {
		c.lodMeshes[i] = &lodMesh{lod: l.LOD}
	}
	opts.Surface.SetVisible(false)
	return c
}

// Load requests the height map. Calling it again is a no-op.
func (c *Chunk) Load() {
	if c.phase != PhaseCreated || c.closed {
		return
	}
	c.phase = PhaseHeightMapPending

	n := c.settings.Mesh.NumVertsPerLine()
	settings := c.settings.HeightMap
	center := c.sampleCenter
	dispatch.Request(c.opts.Dispatcher, c.ctx,
		func() (heightmap.HeightMap, error) { return heightmap.Generate(n, n, settings, center) },
		c.onHeightMap,
	)
}

func (c *Chunk) onHeightMap(hm heightmap.HeightMap) {
	c.heightMap = hm
	c.phase = PhaseHeightMapReady
	c.opts.Log.Debug("height map ready",
		zap.Int("x", c.Coord.X), zap.Int("y", c.Coord.Y),
		zap.Float64("min", hm.MinValue), zap.Float64("max", hm.MaxValue))
	c.UpdateVisibility(c.opts.Viewer())
}

func (c *Chunk) onMesh(index int) {
	for _, r := range c.registrations {
		if r.index != index {
			continue
		}
		switch r.role {
		case RoleRender:
			c.UpdateVisibility(c.opts.Viewer())
		case RoleCollider:
			c.UpdateCollisionMesh(c.opts.Viewer())
		}
	}
}

func (c *Chunk) requestMesh(index int) {
	lm := c.lodMeshes[index]
	lm.request(c.ctx, c.opts.Dispatcher, c.heightMap.Values, c.settings.Mesh, func(*meshing.MeshData) {
		c.onMesh(index)
	})
}

// UpdateVisibility shows or hides the chunk for a viewer at the given XZ position and
// swaps in or requests the mesh for the selected detail level. It does nothing until the
// height map has arrived.
func (c *Chunk) UpdateVisibility(viewer mgl64.Vec2) {
	if c.phase != PhaseHeightMapReady || c.closed {
		return
	}
	dist := math.Sqrt(c.bounds.SqrDistance(viewer))
	wasVisible := c.visible
	visible := dist <= c.maxViewDist

	if visible {
		index := c.settings.DetailLevels.Select(dist)
		if index != c.previousLOD {
			lm := c.lodMeshes[index]
			switch {
			case lm.hasMesh():
				c.previousLOD = index
				c.opts.Surface.SetMesh(lm.lod, lm.mesh)
			case !lm.requested:
				c.requestMesh(index)
			}
		}
	}

	if wasVisible != visible {
		c.visible = visible
		c.opts.Surface.SetVisible(visible)
		if c.opts.OnVisibilityChanged != nil {
			c.opts.OnVisibilityChanged(c, visible)
		}
	}
}

// UpdateCollisionMesh requests the collider level's mesh once the viewer is within that
// level's threshold and commits it as the collision surface once the viewer is within
// the collider generation distance. A committed collider is never replaced.
func (c *Chunk) UpdateCollisionMesh(viewer mgl64.Vec2) {
	if c.hasSetCollider || c.phase != PhaseHeightMapReady || c.closed {
		return
	}
	sqrDist := c.bounds.SqrDistance(viewer)
	lm := c.lodMeshes[c.colliderIndex]

	if sqrDist < c.settings.DetailLevels[c.colliderIndex].SqrVisibleDistanceThreshold() && !lm.requested {
		c.requestMesh(c.colliderIndex)
	}

	threshold := c.settings.ColliderGenerationDistance
	if sqrDist < threshold*threshold && lm.hasMesh() {
		c.opts.Surface.SetCollider(lm.mesh)
		c.hasSetCollider = true
		c.opts.Log.Debug("collider set", zap.Int("x", c.Coord.X), zap.Int("y", c.Coord.Y), zap.Int("lod", lm.lod))
	}
}

// Close drops outstanding work and destroys the surface.
func (c *Chunk) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.opts.Surface.Destroy()
}

// Phase reports height map progress.
func (c *Chunk) Phase() Phase { return c.phase }

// HeightMap returns the generated height map, valid once Phase is PhaseHeightMapReady.
func (c *Chunk) HeightMap() heightmap.HeightMap { return c.heightMap }

// Visible reports whether the chunk is within view distance.
func (c *Chunk) Visible() bool { return c.visible }

// LODIndex is the detail level index of the mesh on display, -1 before the first.
func (c *Chunk) LODIndex() int { return c.previousLOD }

// HasCollider reports whether a collision mesh has been committed.
func (c *Chunk) HasCollider() bool { return c.hasSetCollider }

// Bounds returns the chunk's footprint.
func (c *Chunk) Bounds() Bounds { return c.bounds }

// SampleCenter is the noise sample offset of the chunk in grid units.
func (c *Chunk) SampleCenter() mgl64.Vec2 { return c.sampleCenter }

// MeshRequested reports whether the mesh for a detail level index has been requested.
func (c *Chunk) MeshRequested(index int) bool { return c.lodMeshes[index].requested }

// Mesh returns the cached mesh for a detail level index, or nil.
func (c *Chunk) Mesh(index int) *meshing.MeshData { return c.lodMeshes[index].mesh }
