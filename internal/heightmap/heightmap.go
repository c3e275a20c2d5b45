// Package heightmap turns normalized noise into terrain elevations.
package heightmap

import (
	"fmt"
	"math"

	"endless-terrain/internal/noise"
	"endless-terrain/internal/profiling"

	"github.com/go-gl/mathgl/mgl64"
)

// Settings controls how noise is shaped into elevation.
type Settings struct {
	Noise            noise.Profile `yaml:"noise"`
	HeightMultiplier float64       `yaml:"height_multiplier"`
	HeightCurve      Curve         `yaml:"height_curve"`
	UseFalloff       bool          `yaml:"use_falloff"`
	FalloffSlope     float64       `yaml:"falloff_slope"`
	FalloffOffset    float64       `yaml:"falloff_offset"`
}

// DefaultSettings returns a gently rolling landscape.
func DefaultSettings() Settings {
	return Settings{
		Noise:            noise.DefaultProfile(),
		HeightMultiplier: 30,
		HeightCurve:      LinearCurve(),
		FalloffSlope:     3,
		FalloffOffset:    2.2,
	}
}

// MinHeight is the lowest elevation the curve can produce.
func (s Settings) MinHeight() float64 {
	return s.HeightMultiplier * s.HeightCurve.Clone().Evaluate(0)
}

// MaxHeight is the highest elevation the curve can produce for normalized input.
func (s Settings) MaxHeight() float64 {
	return s.HeightMultiplier * s.HeightCurve.Clone().Evaluate(1)
}

// HeightMap is a finished elevation grid and its extremes.
type HeightMap struct {
	Values   noise.Grid
	MinValue float64
	MaxValue float64
}

// Generate samples normalized noise around sampleCenter and applies
// value *= curve(value) * multiplier to every cell.
func Generate(width, height int, settings Settings, sampleCenter mgl64.Vec2) (HeightMap, error) {
	if width <= 0 || height <= 0 {
		return HeightMap{}, fmt.Errorf("heightmap: invalid size %dx%d", width, height)
	}
	defer profiling.Track("heightmap.Generate")()

	values := noise.GenerateNormalized(width, height, settings.Noise, sampleCenter)

	var falloff noise.Grid
	if settings.UseFalloff {
		falloff = Falloff(width, settings.FalloffSlope, settings.FalloffOffset)
	}

	curve := settings.HeightCurve.Clone()
	minValue, maxValue := math.Inf(1), math.Inf(-1)

	for y := range height {
		for x := range width {
			i := y*width + x
			v := values.Values[i]
			if settings.UseFalloff && x < falloff.Width && y < falloff.Height {
				v = math.Min(math.Max(v-falloff.At(x, y), 0), 1)
			}
			v *= curve.Evaluate(v) * settings.HeightMultiplier
			values.Values[i] = v

			minValue = math.Min(minValue, v)
			maxValue = math.Max(maxValue, v)
		}
	}
	values.Min, values.Max = minValue, maxValue

	return HeightMap{Values: values, MinValue: minValue, MaxValue: maxValue}, nil
}
