package noise

import (
	"math"
	"math/rand"

	"endless-terrain/internal/profiling"

	"github.com/dgravesa/go-parallel/parallel"
	"github.com/go-gl/mathgl/mgl64"
)

// octaveOffsetRange bounds the per-octave random displacement.
const octaveOffsetRange = 100000

// MaxPossibleHeight is the analytic ceiling used by global normalization.
// It depends only on persistence, so every chunk divides by the same value.
func MaxPossibleHeight(persistence float64) float64 {
	return 1 / (1 - math.Pow(persistence, 1.5)/2)
}

// OctaveOffsets derives one sample offset per octave from a generator seeded once with seed.
// The manual offset and sample center shift every octave; y is subtracted so that
// increasing grid rows walk toward decreasing world Z.
func OctaveOffsets(octaves int, seed int64, offset, sampleCenter mgl64.Vec2) []mgl64.Vec2 {
	if octaves < 0 {
		octaves = 0
	}
	prng := rand.New(rand.NewSource(seed))
	offsets := make([]mgl64.Vec2, octaves)
	for i := range offsets {
		rx := float64(prng.Intn(2*octaveOffsetRange) - octaveOffsetRange)
		ry := float64(prng.Intn(2*octaveOffsetRange) - octaveOffsetRange)
		offsets[i] = mgl64.Vec2{
			rx + offset.X() + sampleCenter.X(),
			ry - offset.Y() - sampleCenter.Y(),
		}
	}
	return offsets
}

// Generate samples a raw, unnormalized width x height field. Each octave contributes
// amplitude*(2*sample-1); frequency grows by lacunarity and amplitude decays by
// persistence. The returned grid records the raw min/max.
func Generate(width, height int, profile Profile, sampleCenter mgl64.Vec2) Grid {
	defer profiling.Track("noise.Generate")()

	p := profile.Clamped()
	alg := New(p.Algorithm, p.Seed)
	offsets := OctaveOffsets(p.Octaves, p.Seed, p.Offset, sampleCenter)

	grid := NewGrid(width, height)

	// Zoom toward the center rather than the top-left corner when scale changes.
	halfWidth := float64(width) / 2
	halfHeight := float64(height) / 2

	parallel.For(height, func(y, _ int) {
		for x := range width {
			amplitude := 1.0
			frequency := 1.0
			noiseHeight := 0.0

			for _, off := range offsets {
				sampleX := (float64(x) - halfWidth + off.X()) / p.Scale * frequency
				sampleY := (float64(y) - halfHeight + off.Y()) / p.Scale * frequency

				noiseHeight += (alg.Sample(sampleX, sampleY)*2 - 1) * amplitude

				amplitude *= p.Persistence
				frequency *= p.Lacunarity
			}
			grid.Values[grid.index(x, y)] = noiseHeight
		}
	})

	grid.bounds()
	return grid
}

// Normalize maps raw samples into a bounded range.
//
// Local mode is an inverse lerp over the grid's own min/max. Global mode computes
// (v+1) / (2*maxPossibleHeight/factor) clamped below at zero; it is the only mode that
// keeps adjacent grids consistent along shared edges.
func Normalize(grid Grid, mode NormalizeMode, factor, maxPossibleHeight float64) Grid {
	out := NewGrid(grid.Width, grid.Height)
	divisor := 2 * maxPossibleHeight / factor

	for i, v := range grid.Values {
		switch mode {
		case NormalizeLocal:
			out.Values[i] = inverseLerp(grid.Min, grid.Max, v)
		default:
			out.Values[i] = math.Max((v+1)/divisor, 0)
		}
	}
	out.bounds()
	return out
}

// GenerateNormalized samples and normalizes using the profile's own mode and factor.
func GenerateNormalized(width, height int, profile Profile, sampleCenter mgl64.Vec2) Grid {
	p := profile.Clamped()
	raw := Generate(width, height, p, sampleCenter)
	return Normalize(raw, p.NormalizeMode, p.NormalizationFactor, MaxPossibleHeight(p.Persistence))
}

// inverseLerp returns where v lies between a and b, clamped to [0,1]; 0 when a == b.
func inverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return clamp01((v - a) / (b - a))
}
