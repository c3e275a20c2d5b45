package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"endless-terrain/internal/config"
	"endless-terrain/internal/heightmap"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/noise"
	"endless-terrain/internal/texture"

	"go.uber.org/zap"
)

// render writes the configured preview and returns the path it wrote.
func render(cfg *config.Config, log *zap.Logger) (string, error) {
	n := cfg.Mesh.NumVertsPerLine()
	hm := cfg.HeightMap
	center := cfg.Preview.Center

	var img image.Image
	var label string
	switch cfg.Preview.Mode {
	case "noise":
		grid := noise.GenerateNormalized(n, n, hm.Noise, center)
		img = texture.FromHeightMap(grid, 0, 1)
		label = fmt.Sprintf("noise %s seed %d", hm.Noise.Algorithm, hm.Noise.Seed)
	case "falloff":
		img = texture.FromHeightMap(heightmap.Falloff(n, hm.FalloffSlope, hm.FalloffOffset), 0, 1)
		label = fmt.Sprintf("falloff a=%g b=%g", hm.FalloffSlope, hm.FalloffOffset)
	case "color":
		m, err := heightmap.Generate(n, n, hm, center)
		if err != nil {
			return "", err
		}
		rgba, err := texture.FromColorMap(m.Values, hm.MinHeight(), hm.MaxHeight(), cfg.Texture.Regions)
		if err != nil {
			return "", err
		}
		img = rgba
		label = fmt.Sprintf("seed %d  %.1f..%.1f", hm.Noise.Seed, m.MinValue, m.MaxValue)
	case "mesh":
		return writeMesh(cfg, n, log)
	default:
		return "", fmt.Errorf("unknown preview mode %q", cfg.Preview.Mode)
	}

	scaled := texture.Scale(img, cfg.Preview.Size, cfg.Preview.Size, cfg.Preview.Smooth)
	texture.Label(scaled, label)
	path := withExt(cfg.Preview.Output, ".png")
	if err := texture.SavePNG(path, scaled); err != nil {
		return "", err
	}
	return path, nil
}

func writeMesh(cfg *config.Config, n int, log *zap.Logger) (string, error) {
	m, err := heightmap.Generate(n, n, cfg.HeightMap, cfg.Preview.Center)
	if err != nil {
		return "", err
	}
	lod := cfg.Preview.LOD
	if skip := meshing.SkipIncrement(lod); (n-5)%skip != 0 {
		return "", fmt.Errorf("lod %d does not divide chunk size %d", lod, n-5)
	}
	mesh := meshing.Build(m.Values, cfg.Mesh, lod)
	log.Debug("mesh built",
		zap.Int("lod", lod),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Bool("flat_shaded", mesh.FlatShaded()),
	)

	path := withExt(cfg.Preview.Output, ".obj")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(f, "# endless-terrain chunk lod %d seed %d\n", lod, cfg.HeightMap.Noise.Seed); err != nil {
		f.Close()
		return "", err
	}
	if err := mesh.WriteOBJ(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// withExt swaps path's extension for ext.
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
