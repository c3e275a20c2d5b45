package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"endless-terrain/internal/config"
	"endless-terrain/internal/dispatch"
	"endless-terrain/internal/events"
	"endless-terrain/internal/terrain"

	"go.uber.org/zap"
)

// newDispatcher builds the configured dispatcher and the function that stops it.
func newDispatcher(cfg *config.Config, log *zap.Logger) (dispatch.Dispatcher, func()) {
	if cfg.Dispatcher.Mode == "pool" {
		p := dispatch.NewPool(cfg.Dispatcher.Workers, log)
		log.Info("using worker pool", zap.Int("workers", p.Workers()))
		return p, p.Shutdown
	}
	r := dispatch.NewRequester(log)
	log.Info("using goroutine per request")
	return r, r.Wait
}

func newStreamer(cfg *config.Config, d dispatch.Dispatcher, surfaces terrain.SurfaceFactory, bus *events.Broadcaster[terrain.SettingsChanged], log *zap.Logger) (*terrain.Streamer, error) {
	policy, err := terrain.NewEvictionPolicy(cfg.Streamer.Eviction, cfg.Streamer.EvictionLimit)
	if err != nil {
		return nil, err
	}
	s, err := terrain.NewStreamer(cfg.Settings, terrain.Options{
		Dispatcher:    d,
		Surfaces:      surfaces,
		Eviction:      policy,
		MoveThreshold: cfg.Streamer.MoveThreshold,
		Events:        bus,
		Log:           log,
	})
	if err != nil {
		return nil, err
	}
	log.Info("streamer ready",
		zap.Float64("mesh_world_size", s.MeshWorldSize()),
		zap.Int("chunks_visible_in_view_dst", s.ChunksVisibleInViewDst()),
		zap.String("eviction", cfg.Streamer.Eviction),
	)
	return s, nil
}

// watchReload rereads path on SIGHUP and announces the new generation settings.
func watchReload(ctx context.Context, path string, bus *events.Broadcaster[terrain.SettingsChanged], log *zap.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
		}
		if path == "" {
			log.Warn("SIGHUP ignored, no config file in use")
			continue
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			log.Error("reload failed", zap.String("path", path), zap.Error(err))
			continue
		}
		bus.Publish(terrain.SettingsChanged{Settings: cfg.Settings})
		log.Info("config reloaded", zap.String("path", path), zap.Int64("seed", cfg.HeightMap.Noise.Seed))
	}
}
