package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagSeed    = flag.Int64("seed", 0, "Noise seed (0 keeps the configured seed)")
	flagLOD     = flag.Int("lod", -1, "Level of detail for mesh previews")
	flagWorkers = flag.Int("workers", 0, "Run background work on a pool of this many workers")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.HeightMap.Noise.Seed = *flagSeed
	}
	if *flagLOD >= 0 {
		cfg.Preview.LOD = *flagLOD
	}
	if *flagWorkers > 0 {
		cfg.Dispatcher.Mode = "pool"
		cfg.Dispatcher.Workers = *flagWorkers
	}
}
