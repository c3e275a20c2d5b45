package noise

import (
	"math"
)

// Deterministic 2D value noise over an integer lattice.
// Lattice values come from an integer hash, so no tables are shared between goroutines.

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, y int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(y) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x int64, y int64, seed int64) float64 {
	h := hash2(x, y, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// Value is smooth lattice value noise in [0,1].
type Value struct {
	seed int64
}

// NewValue returns value noise for the given seed.
func NewValue(seed int64) *Value {
	return &Value{seed: seed}
}

// Sample implements Algorithm.
func (v *Value) Sample(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)

	fx := fade(x - x0)
	fy := fade(y - y0)

	ix, iy := int64(x0), int64(y0)
	v00 := latticeValue(ix, iy, v.seed)
	v10 := latticeValue(ix+1, iy, v.seed)
	v01 := latticeValue(ix, iy+1, v.seed)
	v11 := latticeValue(ix+1, iy+1, v.seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fy)
}

// White is uncorrelated noise: every sample position hashes to an independent value.
// Unlike a shared random source it is reproducible and safe under concurrent sampling.
type White struct {
	seed int64
}

// NewWhite returns white noise for the given seed.
func NewWhite(seed int64) *White {
	return &White{seed: seed}
}

// Sample implements Algorithm.
func (w *White) Sample(x, y float64) float64 {
	h := hash2(int64(math.Float64bits(x)), int64(math.Float64bits(y)), w.seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
