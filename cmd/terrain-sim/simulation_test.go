package main

import (
	"context"
	"math"
	"testing"
	"time"

	"endless-terrain/internal/config"
	"endless-terrain/internal/events"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/noise"
	"endless-terrain/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Mesh = meshing.Settings{Scale: 1, ChunkSizeIndex: 0}
	cfg.DetailLevels = terrain.DetailLevels{
		{LOD: 0, VisibleDistanceThreshold: 30, UseForCollider: true},
		{LOD: 2, VisibleDistanceThreshold: 60},
	}
	cfg.Simulation.TickRate = 1000
	cfg.Simulation.Ticks = 5
	cfg.Simulation.StatsEvery = 2
	cfg.Simulation.TickBudget = 0
	cfg.Simulation.Waypoints = []mgl64.Vec2{{0, 0}, {100, 0}}
	return cfg
}

type simHarness struct {
	sim      *simulation
	streamer *terrain.Streamer
	logs     *observer.ObservedLogs
}

func newSimHarness(t *testing.T, cfg *config.Config) *simHarness {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	d, stopDispatcher := newDispatcher(cfg, zap.NewNop())
	bus := events.NewBroadcaster[terrain.SettingsChanged](1)
	surfaces := newCountingSurfaces()
	s, err := newStreamer(cfg, d, surfaces.New, bus, zap.NewNop())
	if err != nil {
		t.Fatalf("newStreamer: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
		stopDispatcher()
		bus.Close()
	})
	return &simHarness{
		sim:      newSimulation(cfg, s, d, surfaces, zap.New(core)),
		streamer: s,
		logs:     logs,
	}
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(10 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

// finished stops the run from inside its own goroutine, the way the exit handler does
// when the run ends on its own.
func TestSimulationRunnerStopFromFinished(t *testing.T) {
	h := newSimHarness(t, testConfig())
	exited := make(chan struct{})
	var stop func()
	run, stop := h.sim.runner(context.Background(), func() {
		stop()
		close(exited)
	})
	go run()
	waitClosed(t, exited, "run")

	if got := h.streamer.Stats().Ticks; got != 5 {
		t.Errorf("ticks = %d, want 5", got)
	}
}

func TestSimulationRunnerStopCancels(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.Ticks = 0
	h := newSimHarness(t, cfg)

	finished := make(chan struct{})
	run, stop := h.sim.runner(context.Background(), func() { close(finished) })
	go run()
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()
	waitClosed(t, stopped, "stop")
	waitClosed(t, finished, "finished")
	if h.logs.FilterMessage("simulation stopped").Len() != 0 {
		t.Error("cancellation logged as an error")
	}
}

func TestSimulationStatsOnPool(t *testing.T) {
	cfg := testConfig()
	cfg.Dispatcher.Mode = "pool"
	cfg.Dispatcher.Workers = 2
	h := newSimHarness(t, cfg)
	if err := h.sim.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	stats := h.logs.FilterMessage("stats").All()
	if len(stats) == 0 {
		t.Fatal("no stats logged")
	}
	fields := stats[len(stats)-1].ContextMap()
	for _, key := range []string{"chunks", "registry_changes", "queued", "skipped"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("stats missing %q: %v", key, fields)
		}
	}
}

func TestSimulationClearance(t *testing.T) {
	h := newSimHarness(t, testConfig())
	if ray, _ := h.sim.clearance(mgl64.Vec2{1, 1}); ray.Hit {
		t.Fatal("hit without any collider")
	}

	s := h.sim.surfaces.New(terrain.Coord{}, mgl64.Vec2{})
	s.SetCollider(meshing.Generate(noise.NewGrid(7, 7), 8, 0, false))
	ground, ok := h.sim.surfaces.ground.HeightAt(1, 1)
	if !ok {
		t.Fatal("collider does not cover (1,1)")
	}

	ray, top := h.sim.clearance(mgl64.Vec2{1, 1})
	if !ray.Hit {
		t.Fatal("ray missed the collider")
	}
	if got := top - ray.Distance; math.Abs(got-ground) > 0.01 {
		t.Errorf("ray ground = %v, want %v", got, ground)
	}
}
