package main

import (
	"context"
	"math"
	"time"

	"endless-terrain/internal/config"
	"endless-terrain/internal/dispatch"
	"endless-terrain/internal/physics"
	"endless-terrain/internal/profiling"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// simulation drives the streamer at a fixed tick rate.
type simulation struct {
	streamer *terrain.Streamer
	surfaces *countingSurfaces
	pool     *dispatch.Pool // nil unless running on the worker pool
	path     *viewerPath
	limiter  *rate.Limiter
	log      *zap.Logger

	maxTicks   int
	budget     time.Duration
	statsEvery int
	slowTicks  int
}

func newSimulation(cfg *config.Config, s *terrain.Streamer, d dispatch.Dispatcher, surfaces *countingSurfaces, log *zap.Logger) *simulation {
	pool, _ := d.(*dispatch.Pool)
	return &simulation{
		pool:       pool,
		streamer:   s,
		surfaces:   surfaces,
		path:       newViewerPath(cfg.Simulation.Waypoints, cfg.Simulation.Speed),
		limiter:    rate.NewLimiter(rate.Limit(cfg.Simulation.TickRate), 1),
		log:        log,
		maxTicks:   cfg.Simulation.Ticks,
		budget:     cfg.Simulation.TickBudget,
		statsEvery: cfg.Simulation.StatsEvery,
	}
}

// Run ticks until ctx is cancelled or the configured tick count is reached.
func (sim *simulation) Run(ctx context.Context) error {
	viewer := sim.path.Position()
	for n := 1; sim.maxTicks == 0 || n <= sim.maxTicks; n++ {
		if err := sim.limiter.Wait(ctx); err != nil {
			return err
		}
		sim.tick(n, viewer)
		viewer = sim.path.Step()
	}
	sim.logStats()
	return nil
}

// runner wraps Run for a background goroutine. stop cancels the run and waits for it to
// return, and is safe to call from finished, which run calls once Run has returned.
func (sim *simulation) runner(ctx context.Context, finished func()) (run, stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	run = func() {
		if err := sim.Run(ctx); err != nil && ctx.Err() == nil {
			sim.log.Error("simulation stopped", zap.Error(err))
		}
		close(done)
		finished()
	}
	stop = func() {
		cancel()
		<-done
	}
	return run, stop
}

func (sim *simulation) tick(n int, viewer mgl64.Vec2) {
	profiling.ResetTick()
	start := time.Now()
	if err := sim.streamer.Tick(viewer); err != nil {
		sim.log.Error("tick", zap.Int("tick", n), zap.Error(err))
	}
	elapsed := time.Since(start)
	if sim.budget > 0 && elapsed > sim.budget {
		sim.slowTicks++
		profiling.LogSlowTick(sim.log, elapsed, sim.budget)
	}
	if n%sim.statsEvery == 0 {
		sim.logStats()
	}
}

// clearance casts a ray straight down onto the committed colliders at pos. It returns
// the hit and the height the ray started from, just above the highest possible terrain.
func (sim *simulation) clearance(pos mgl64.Vec2) (physics.RaycastResult, float64) {
	hm := sim.streamer.Settings().HeightMap
	top := hm.MaxHeight() + 1
	start := mgl64.Vec3{pos.X(), top, pos.Y()}
	return physics.Raycast(start, mgl64.Vec3{0, -1, 0}, 0, top-hm.MinHeight()+1, sim.surfaces.ground), top
}

func (sim *simulation) logStats() {
	st := sim.streamer.Stats()
	pos := sim.path.Position()
	ground := physics.FindGroundLevel(pos.X(), pos.Y(), sim.surfaces.ground, math.NaN())
	fields := []zap.Field{
		zap.Uint64("tick", st.Ticks),
		zap.Float64("x", pos.X()),
		zap.Float64("z", pos.Y()),
		zap.Float64("ground", ground),
		zap.Int("chunks", st.Chunks),
		zap.Int("visible", st.Visible),
		zap.Int("colliders", st.Colliders),
		zap.Uint64("evicted", st.Evicted),
		zap.Uint64("reloads", st.Reloads),
		zap.Uint64("registry_changes", st.Changes),
		zap.Int("surfaces_shown", sim.surfaces.shown),
		zap.Ints("meshes_per_lod", sim.surfaces.meshes[:]),
		zap.Int("triangles", sim.surfaces.triangles),
		zap.Int("slow_ticks", sim.slowTicks),
	}
	if ray, top := sim.clearance(pos); ray.Hit {
		fields = append(fields, zap.Float64("ray_ground", top-ray.Distance))
	}
	if sim.pool != nil {
		fields = append(fields,
			zap.Int("queued", sim.pool.QueueLength()),
			zap.Int("skipped", sim.pool.Skipped()),
		)
	}
	sim.log.Info("stats", fields...)
}
