package main

import (
	"bufio"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"endless-terrain/internal/config"
	"endless-terrain/internal/meshing"

	"go.uber.org/zap"
)

func previewConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Mesh = meshing.Settings{Scale: 1, ChunkSizeIndex: 0}
	cfg.HeightMap.Noise.Octaves = 3
	cfg.HeightMap.Noise.Seed = 7
	cfg.Preview.Mode = mode
	cfg.Preview.Size = 64
	cfg.Preview.Output = filepath.Join(t.TempDir(), "out.png")
	return cfg
}

func TestRenderImages(t *testing.T) {
	for _, mode := range []string{"noise", "falloff", "color"} {
		t.Run(mode, func(t *testing.T) {
			cfg := previewConfig(t, mode)
			path, err := render(cfg, zap.NewNop())
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
				t.Errorf("image is %v, want 64x64", b)
			}
		})
	}
}

func TestRenderMesh(t *testing.T) {
	cfg := previewConfig(t, "mesh")
	cfg.Preview.LOD = 2

	path, err := render(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if filepath.Ext(path) != ".obj" {
		t.Errorf("mesh written to %s, want .obj", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var verts, faces int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		switch {
		case strings.HasPrefix(sc.Text(), "v "):
			verts++
		case strings.HasPrefix(sc.Text(), "f "):
			faces++
		}
	}
	// n=53 at lod 2
	if verts != 513 || faces != 680 {
		t.Errorf("obj has %d vertices and %d faces, want 513 and 680", verts, faces)
	}
}

func TestRenderUnknownMode(t *testing.T) {
	cfg := previewConfig(t, "wireframe")
	if _, err := render(cfg, zap.NewNop()); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestWithExt(t *testing.T) {
	tests := map[string]string{
		"terrain.png":    "terrain.obj",
		"out/chunk":      "out/chunk.obj",
		"a.b/terrain.py": "a.b/terrain.obj",
	}
	for in, want := range tests {
		if got := withExt(in, ".obj"); got != want {
			t.Errorf("withExt(%q) = %q, want %q", in, got, want)
		}
	}
}
