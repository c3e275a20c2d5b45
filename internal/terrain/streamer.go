// Package terrain streams an endless grid of LOD terrain chunks around a moving viewer.
package terrain

import (
	"errors"
	"math"
	"slices"

	"endless-terrain/internal/dispatch"
	"endless-terrain/internal/events"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// DefaultMoveThreshold is how far the viewer must travel before the chunk window is
// rescanned.
const DefaultMoveThreshold = 25.0

// SettingsChanged announces new generation settings. The streamer discards every chunk
// and regenerates on the next tick.
type SettingsChanged struct {
	Settings Settings
}

// Options configure a Streamer.
type Options struct {
	Dispatcher dispatch.Dispatcher
	Surfaces   SurfaceFactory
	Eviction   EvictionPolicy
	// MoveThreshold overrides DefaultMoveThreshold when positive.
	MoveThreshold float64
	// Events, when set, is subscribed to for settings changes.
	Events *events.Broadcaster[SettingsChanged]
	Log    *zap.Logger
}

// Stats summarizes the streamer's state.
type Stats struct {
	Chunks    int
	Visible   int
	Colliders int
	Evicted   uint64
	Reloads   uint64
	Ticks     uint64
	// Changes counts registry adds and removals.
	Changes   uint64
}

// Streamer owns the chunk registry and drives chunk updates once per Tick. It is not
// safe for concurrent use.
type Streamer struct {
	settings   Settings
	dispatcher dispatch.Dispatcher
	surfaces   SurfaceFactory
	eviction   EvictionPolicy
	log        *zap.Logger

	store   *Registry
	visible []*Chunk

	sub    events.Subscription[SettingsChanged]
	bus    *events.Broadcaster[SettingsChanged]
	hasSub bool

	meshWorldSize          float64
	chunksVisibleInViewDst int
	sqrMoveThreshold       float64

	viewer         mgl64.Vec2
	viewerOld      mgl64.Vec2
	viewerLastTick mgl64.Vec2
	ticks          uint64
	evicted        uint64
	reloads        uint64
}

// NewStreamer validates settings and creates a streamer with no chunks.
func NewStreamer(settings Settings, opts Options) (*Streamer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("terrain: streamer needs a dispatcher")
	}
	if opts.Surfaces == nil {
		opts.Surfaces = NopSurfaces
	}
	if opts.Eviction == nil {
		opts.Eviction = RetainAll{}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	threshold := opts.MoveThreshold
	if threshold <= 0 {
		threshold = DefaultMoveThreshold
	}

	s := &Streamer{
		dispatcher:       opts.Dispatcher,
		surfaces:         opts.Surfaces,
		eviction:         opts.Eviction,
		log:              opts.Log,
		store:            NewRegistry(),
		sqrMoveThreshold: threshold * threshold,
	}
	s.apply(settings)
	if opts.Events != nil {
		s.bus = opts.Events
		s.sub = opts.Events.Subscribe()
		s.hasSub = true
	}
	return s, nil
}

func (s *Streamer) apply(settings Settings) {
	s.settings = settings
	s.meshWorldSize = settings.Mesh.MeshWorldSize()
	s.chunksVisibleInViewDst = int(math.Ceil(settings.DetailLevels.MaxViewDistance() / s.meshWorldSize))
}

// Tick advances the streamer for a viewer at the given XZ position. Results of finished
// background work are applied first; their errors are returned after the tick completes.
func (s *Streamer) Tick(viewer mgl64.Vec2) error {
	defer profiling.Track("terrain.Tick")()

	s.viewer = viewer
	s.ticks++
	first := s.ticks == 1
	rescan := first

	if s.hasSub {
		if ev, ok := events.Latest(s.sub); ok {
			if s.reload(ev.Settings) {
				rescan = true
			}
		}
	}

	err := s.dispatcher.Drain()
	if err != nil {
		s.log.Warn("terrain generation failed", zap.Error(err))
	}

	if first || viewer != s.viewerLastTick {
		for _, c := range slices.Clone(s.visible) {
			c.UpdateCollisionMesh(viewer)
		}
	}

	if rescan || s.viewerOld.Sub(viewer).LenSqr() > s.sqrMoveThreshold {
		s.viewerOld = viewer
		s.updateVisibleChunks()
	}

	s.evict()

	s.viewerLastTick = viewer
	return err
}

func (s *Streamer) updateVisibleChunks() {
	defer profiling.Track("terrain.updateVisibleChunks")()

	// Refresh chunks already on screen first so ones leaving view drop out before the
	// window scan below.
	updated := make(map[Coord]struct{}, len(s.visible))
	// Backwards, since a chunk that hides removes itself from the list.
	for i := len(s.visible) - 1; i >= 0; i-- {
		c := s.visible[i]
		updated[c.Coord] = struct{}{}
		c.UpdateVisibility(s.viewer)
		if c.Visible() {
			s.store.Touch(c.Coord, s.ticks)
		}
	}

	current := CoordAt(s.viewer, s.meshWorldSize)
	k := s.chunksVisibleInViewDst
	for dy := -k; dy <= k; dy++ {
		for dx := -k; dx <= k; dx++ {
			coord := Coord{X: current.X + dx, Y: current.Y + dy}
			if _, ok := updated[coord]; ok {
				continue
			}
			if c, ok := s.store.Get(coord); ok {
				s.store.Touch(coord, s.ticks)
				c.UpdateVisibility(s.viewer)
				continue
			}
			c := NewChunk(coord, s.settings, ChunkOptions{
				Dispatcher:          s.dispatcher,
				Surface:             s.surfaces(coord, coord.vec().Mul(s.meshWorldSize)),
				Viewer:              s.currentViewer,
				OnVisibilityChanged: s.onVisibilityChanged,
				Log:                 s.log,
			})
			s.store.Add(c, s.ticks)
			c.Load()
		}
	}
}

func (s *Streamer) currentViewer() mgl64.Vec2 { return s.viewer }

func (s *Streamer) onVisibilityChanged(c *Chunk, visible bool) {
	if visible {
		s.visible = append(s.visible, c)
		return
	}
	if i := slices.Index(s.visible, c); i >= 0 {
		s.visible = slices.Delete(s.visible, i, i+1)
	}
}

func (s *Streamer) evict() {
	entries := s.store.Entries()
	k := s.chunksVisibleInViewDst
	scanned := CoordAt(s.viewerOld, s.meshWorldSize)
	current := CoordAt(s.viewer, s.meshWorldSize)

	// Only the window scan creates chunks, so a chunk inside either window would not
	// come back until the next rescan. Pending chunks are left to finish.
	hidden := entries[:0]
	for _, e := range entries {
		c := e.Chunk
		if c.Visible() || c.Phase() != PhaseHeightMapReady {
			continue
		}
		if c.Coord.within(scanned, k) || c.Coord.within(current, k) {
			continue
		}
		hidden = append(hidden, e)
	}
	coords := s.eviction.Select(hidden, len(entries), current)
	for _, coord := range coords {
		c, ok := s.store.Get(coord)
		if !ok || c.Visible() {
			continue
		}
		s.store.Remove(coord)
		c.Close()
		s.evicted++
	}
	if len(coords) > 0 {
		s.log.Debug("evicted chunks", zap.Int("count", len(coords)), zap.Int("remaining", s.store.Len()))
	}
}

// reload swaps in new settings, discarding every chunk. Invalid settings are logged
// and ignored.
func (s *Streamer) reload(settings Settings) bool {
	if err := settings.Validate(); err != nil {
		s.log.Error("ignoring invalid terrain settings", zap.Error(err))
		return false
	}
	for _, c := range s.store.Clear() {
		c.Close()
	}
	s.visible = s.visible[:0]
	s.apply(settings)
	s.reloads++
	s.log.Info("terrain settings reloaded", zap.Float64("mesh_world_size", s.meshWorldSize), zap.Int("view_chunks", s.chunksVisibleInViewDst))
	return true
}

// Chunk returns the chunk at coord if one has been created.
func (s *Streamer) Chunk(coord Coord) (*Chunk, bool) {
	return s.store.Get(coord)
}

// Visible returns the chunks currently in view.
func (s *Streamer) Visible() []*Chunk {
	return slices.Clone(s.visible)
}

// Settings returns the settings in use.
func (s *Streamer) Settings() Settings { return s.settings }

// MeshWorldSize is the edge length of a chunk in world units.
func (s *Streamer) MeshWorldSize() float64 { return s.meshWorldSize }

// ChunksVisibleInViewDst is the half width, in chunks, of the scanned window.
func (s *Streamer) ChunksVisibleInViewDst() int { return s.chunksVisibleInViewDst }

// Stats reports counters for logging.
func (s *Streamer) Stats() Stats {
	st := Stats{
		Chunks:  s.store.Len(),
		Visible: len(s.visible),
		Evicted: s.evicted,
		Reloads: s.reloads,
		Ticks:   s.ticks,
		Changes: s.store.ModCount(),
	}
	for _, e := range s.store.Entries() {
		if e.Chunk.HasCollider() {
			st.Colliders++
		}
	}
	return st
}

// Close discards every chunk and unsubscribes from settings events.
func (s *Streamer) Close() {
	for _, c := range s.store.Clear() {
		c.Close()
	}
	s.visible = nil
	if s.hasSub {
		s.bus.Unsubscribe(s.sub.ID)
		s.hasSub = false
	}
}
