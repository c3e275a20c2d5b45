// Command terrain-preview renders one chunk's noise, colour map or falloff to PNG, or its
// mesh to OBJ.
package main

import (
	"flag"
	"fmt"
	"os"

	"endless-terrain/internal/config"
	"endless-terrain/internal/logger"

	"go.uber.org/zap"
)

var (
	flagMode = flag.String("mode", "", "Preview mode: noise, color, falloff or mesh")
	flagOut  = flag.String("out", "", "Output file")
	flagSize = flag.Int("size", 0, "Output image edge in pixels")
	flagSave = flag.Bool("save-config", false, "Write the effective config to the user config directory")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "terrain-preview: %v\n", err)
		os.Exit(1)
	}
	applyPreviewFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "terrain-preview: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.File, true); err != nil {
		fmt.Fprintf(os.Stderr, "terrain-preview: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("preview")

	if *flagSave {
		if err := cfg.Save(); err != nil {
			log.Error("save config", zap.Error(err))
		} else {
			log.Info("config saved", zap.String("dir", config.ConfigDir()))
		}
	}

	out, err := render(cfg, log)
	if err != nil {
		log.Error("preview failed", zap.String("mode", cfg.Preview.Mode), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	log.Info("preview written", zap.String("mode", cfg.Preview.Mode), zap.String("path", out))
}

func applyPreviewFlags(cfg *config.Config) {
	if *flagMode != "" {
		cfg.Preview.Mode = *flagMode
	}
	if *flagOut != "" {
		cfg.Preview.Output = *flagOut
	}
	if *flagSize > 0 {
		cfg.Preview.Size = *flagSize
	}
}
