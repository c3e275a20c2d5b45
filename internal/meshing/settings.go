package meshing

import "fmt"

const (
	// NumSupportedLODs is the number of detail levels a chunk can be meshed at.
	NumSupportedLODs = 5

	numSupportedFlatShadedChunkSizes = 3
)

// SupportedChunkSizes lists the visible quad count per chunk edge. Every size is
// divisible by each skip increment up to (NumSupportedLODs-1)*2.
var SupportedChunkSizes = [...]int{48, 72, 96, 120, 144, 168, 192, 216, 240}

// Settings describes the mesh shared by every chunk.
type Settings struct {
	Scale                    float64 `yaml:"scale"`
	UseFlatShading           bool    `yaml:"use_flat_shading"`
	ChunkSizeIndex           int     `yaml:"chunk_size_index"`
	FlatShadedChunkSizeIndex int     `yaml:"flat_shaded_chunk_size_index"`
}

// DefaultSettings returns the largest smooth-shaded chunk at scale 2.5.
func DefaultSettings() Settings {
	return Settings{
		Scale:          2.5,
		ChunkSizeIndex: len(SupportedChunkSizes) - 1,
	}
}

// Validate reports indices outside the supported tables.
func (s Settings) Validate() error {
	if s.Scale <= 0 {
		return fmt.Errorf("mesh scale must be positive, got %v", s.Scale)
	}
	if s.ChunkSizeIndex < 0 || s.ChunkSizeIndex >= len(SupportedChunkSizes) {
		return fmt.Errorf("chunk size index %d out of range [0,%d)", s.ChunkSizeIndex, len(SupportedChunkSizes))
	}
	if s.FlatShadedChunkSizeIndex < 0 || s.FlatShadedChunkSizeIndex >= numSupportedFlatShadedChunkSizes {
		return fmt.Errorf("flat shaded chunk size index %d out of range [0,%d)", s.FlatShadedChunkSizeIndex, numSupportedFlatShadedChunkSizes)
	}
	return nil
}

// ChunkSize is the number of visible quads along one edge at LOD 0.
func (s Settings) ChunkSize() int {
	if s.UseFlatShading {
		return SupportedChunkSizes[s.FlatShadedChunkSizeIndex]
	}
	return SupportedChunkSizes[s.ChunkSizeIndex]
}

// NumVertsPerLine is the side of the height grid a chunk needs: the rendered vertices
// plus two extra lines on each side for normals and seam stitching.
func (s Settings) NumVertsPerLine() int {
	return s.ChunkSize() + 5
}

// MeshWorldSize is the rendered edge length of a chunk in world units.
func (s Settings) MeshWorldSize() float64 {
	return float64(s.NumVertsPerLine()-3) * s.Scale
}
