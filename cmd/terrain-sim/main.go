// Command terrain-sim runs the chunk streamer headless along a scripted viewer path.
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"endless-terrain/internal/config"
	"endless-terrain/internal/events"
	"endless-terrain/internal/logger"
	"endless-terrain/internal/terrain"

	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terrain-sim: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.File, true); err != nil {
		fmt.Fprintf(os.Stderr, "terrain-sim: %v\n", err)
		os.Exit(1)
	}

	// SIGHUP is left out of the exit set; it reloads the config instead.
	closer.Init(closer.Config{
		ExitCodeOK:  0,
		ExitCodeErr: 1,
		ExitSignals: []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGABRT},
	})

	log := logger.Named("sim")
	dispatcher, stopDispatcher := newDispatcher(cfg, logger.Named("dispatch"))
	bus := events.NewBroadcaster[terrain.SettingsChanged](1)
	surfaces := newCountingSurfaces()

	streamer, err := newStreamer(cfg, dispatcher, surfaces.New, bus, logger.Named("streamer"))
	if err != nil {
		stopDispatcher()
		closer.Fatalln("terrain-sim:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sim := newSimulation(cfg, streamer, dispatcher, surfaces, log)
	runSim, stopSim := sim.runner(ctx, closer.Close)

	closer.Bind(func() {
		stopSim()
		cancel()
		streamer.Close()
		stopDispatcher()
		bus.Close()
		log.Info("shutdown",
			zap.Uint64("ticks", streamer.Stats().Ticks),
			zap.Int("surfaces_destroyed", surfaces.destroyed),
		)
		logger.Sync()
	})

	go watchReload(ctx, config.Path(), bus, log)
	go runSim()
	closer.Hold()
}
