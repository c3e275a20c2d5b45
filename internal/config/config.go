// Package config handles terrain configuration loading and management.
package config

import (
	"fmt"
	"time"

	"endless-terrain/internal/logger"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/terrain"
	"endless-terrain/internal/texture"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds every setting of the terrain tools.
type Config struct {
	terrain.Settings `yaml:",inline"`

	Streamer   StreamerConfig   `yaml:"streamer"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Texture    TextureConfig    `yaml:"texture"`
	Preview    PreviewConfig    `yaml:"preview"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// StreamerConfig holds chunk streaming settings.
type StreamerConfig struct {
	MoveThreshold float64 `yaml:"move_threshold"`
	Eviction      string  `yaml:"eviction"`       // retain, lru or radius
	EvictionLimit int     `yaml:"eviction_limit"` // chunks for lru, chunk radius for radius
}

// DispatcherConfig selects how background work is run.
type DispatcherConfig struct {
	Mode    string `yaml:"mode"` // requester or pool
	Workers int    `yaml:"workers"`
}

// TextureConfig holds the colour map used for previews.
type TextureConfig struct {
	Regions []texture.Region `yaml:"regions"`
}

// PreviewConfig holds terrain-preview defaults.
type PreviewConfig struct {
	Mode   string     `yaml:"mode"` // noise, color, falloff or mesh
	LOD    int        `yaml:"lod"`
	Center mgl64.Vec2 `yaml:"center,flow"`
	Size   int        `yaml:"size"` // output image edge in pixels
	Smooth bool       `yaml:"smooth"`
	Output string     `yaml:"output"`
}

// SimulationConfig holds terrain-sim settings.
type SimulationConfig struct {
	TickRate   float64       `yaml:"tick_rate"` // ticks per second
	Ticks      int           `yaml:"ticks"`     // 0 runs until interrupted
	Speed      float64       `yaml:"speed"`     // world units per tick
	Waypoints  []mgl64.Vec2  `yaml:"waypoints,flow"`
	TickBudget time.Duration `yaml:"tick_budget"`
	StatsEvery int           `yaml:"stats_every"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string            `yaml:"level"`
	File  logger.FileConfig `yaml:"file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Settings: terrain.DefaultSettings(),
		Streamer: StreamerConfig{
			MoveThreshold: terrain.DefaultMoveThreshold,
			Eviction:      "retain",
		},
		Dispatcher: DispatcherConfig{
			Mode:    "requester",
			Workers: 4,
		},
		Texture: TextureConfig{
			Regions: texture.DefaultRegions(),
		},
		Preview: PreviewConfig{
			Mode:   "color",
			Size:   512,
			Output: "terrain.png",
		},
		Simulation: SimulationConfig{
			TickRate: 30,
			Ticks:    600,
			Speed:    4,
			Waypoints: []mgl64.Vec2{
				{0, 0}, {1500, 0}, {1500, 1500}, {0, 1500}, {0, 0},
			},
			TickBudget: 16 * time.Millisecond,
			StatsEvery: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if _, err := terrain.NewEvictionPolicy(c.Streamer.Eviction, c.Streamer.EvictionLimit); err != nil {
		return err
	}
	switch c.Dispatcher.Mode {
	case "requester", "pool":
	default:
		return fmt.Errorf("config: unknown dispatcher mode %q", c.Dispatcher.Mode)
	}
	switch c.Preview.Mode {
	case "noise", "color", "falloff", "mesh":
	default:
		return fmt.Errorf("config: unknown preview mode %q", c.Preview.Mode)
	}
	if len(c.Texture.Regions) == 0 {
		return fmt.Errorf("config: texture needs at least one region")
	}
	if len(c.Simulation.Waypoints) == 0 {
		return fmt.Errorf("config: simulation needs at least one waypoint")
	}
	return nil
}

// clamp pulls numeric settings into usable ranges.
func (c *Config) clamp() {
	if c.Dispatcher.Workers < 1 {
		c.Dispatcher.Workers = 1
	}
	if c.Dispatcher.Workers > 256 {
		c.Dispatcher.Workers = 256
	}
	if c.Preview.LOD < 0 {
		c.Preview.LOD = 0
	}
	if c.Preview.LOD >= meshing.NumSupportedLODs {
		c.Preview.LOD = meshing.NumSupportedLODs - 1
	}
	if c.Preview.Size < 16 {
		c.Preview.Size = 16
	}
	if c.Simulation.TickRate <= 0 {
		c.Simulation.TickRate = 1
	}
	if c.Simulation.Speed < 0 {
		c.Simulation.Speed = 0
	}
	if c.Simulation.StatsEvery < 1 {
		c.Simulation.StatsEvery = 1
	}
	c.HeightMap.Noise = c.HeightMap.Noise.Clamped()
}
