package noise

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Algorithm samples coherent 2D noise. Samples are nominally in [0,1].
// Implementations must be safe for concurrent use once constructed.
type Algorithm interface {
	Sample(x, y float64) float64
}

// Kind selects an Algorithm implementation.
type Kind int

const (
	KindPerlin Kind = iota
	KindSimplex
	KindValue
	KindCosSin
	KindWhite
)

var kindNames = map[Kind]string{
	KindPerlin:  "perlin",
	KindSimplex: "simplex",
	KindValue:   "value",
	KindCosSin:  "cossin",
	KindWhite:   "white",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("noise: unknown algorithm %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("noise: unknown algorithm %q", text)
}

// New constructs the algorithm of the given kind. Unknown kinds fall back to Perlin.
func New(kind Kind, seed int64) Algorithm {
	switch kind {
	case KindSimplex:
		return &Simplex{noise: opensimplex.NewNormalized(seed)}
	case KindValue:
		return NewValue(seed)
	case KindCosSin:
		return &CosSin{base: NewPerlin(seed)}
	case KindWhite:
		return NewWhite(seed)
	default:
		return NewPerlin(seed)
	}
}

// Perlin wraps single-octave gradient noise; octave layering happens in Generate.
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin returns Perlin noise seeded with seed.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(2, 2, 1, seed)}
}

// Sample implements Algorithm.
func (p *Perlin) Sample(x, y float64) float64 {
	return clamp01(p.p.Noise2D(x, y)*0.5 + 0.5)
}

// Simplex is OpenSimplex noise normalized to [0,1].
type Simplex struct {
	noise opensimplex.Noise
}

// Sample implements Algorithm.
func (s *Simplex) Sample(x, y float64) float64 {
	return s.noise.Eval2(x, y)
}

// CosSin samples the base noise in polar coordinates, producing radial patterns.
type CosSin struct {
	base Algorithm
}

// Sample implements Algorithm.
func (c *CosSin) Sample(x, y float64) float64 {
	r := math.Sqrt(x*x + y*y)
	phi := math.Atan2(y, x)
	return c.base.Sample(r, phi)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
