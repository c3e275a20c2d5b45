package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working and user config directories.
const FileName = "terrain.yaml"

// Load layers the config file found by Path and then the command-line flags over the
// defaults.
func Load() (*Config, error) {
	return build(Path(), applyFlags)
}

// LoadFile layers path over the defaults. Flags are ignored, so terrain-sim can reload
// the file on SIGHUP without its startup flags winning.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: no file to load")
	}
	return build(path, nil)
}

func build(path string, override func(*Config)) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if override != nil {
		override(cfg)
	}
	cfg.clamp()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeFile overlays the YAML document at path onto cfg. Keys cfg has no field for
// are rejected.
func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// Path returns the --config flag if set, otherwise the first existing file among
// SearchPaths, or "" when there is none.
func Path() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// SearchPaths lists where Load looks for a config file, in order.
func SearchPaths() []string {
	return []string{FileName, filepath.Join(ConfigDir(), FileName)}
}

// ConfigDir is the endless-terrain directory under the user's config directory, or the
// working directory when the platform has none.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "endless-terrain")
}
