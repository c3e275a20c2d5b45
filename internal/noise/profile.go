package noise

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// MinScale replaces any non-positive noise scale.
const MinScale = 0.0001

// NormalizeMode selects how raw octave sums are mapped into a bounded range.
type NormalizeMode int

const (
	// NormalizeLocal remaps using the grid's own min/max. Adjacent grids will not agree
	// at their shared edge, so this is only meant for single-chunk previews.
	NormalizeLocal NormalizeMode = iota
	// NormalizeGlobal divides by an analytic ceiling independent of the sampled region.
	NormalizeGlobal
)

func (m NormalizeMode) String() string {
	switch m {
	case NormalizeLocal:
		return "local"
	case NormalizeGlobal:
		return "global"
	}
	return fmt.Sprintf("NormalizeMode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m NormalizeMode) MarshalText() ([]byte, error) {
	switch m {
	case NormalizeLocal, NormalizeGlobal:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("noise: unknown normalize mode %d", int(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NormalizeMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "local":
		*m = NormalizeLocal
	case "global":
		*m = NormalizeGlobal
	default:
		return fmt.Errorf("noise: unknown normalize mode %q", text)
	}
	return nil
}

// Profile describes a multi-octave noise field.
type Profile struct {
	Seed                int64         `yaml:"seed"`
	Scale               float64       `yaml:"scale"`
	Octaves             int           `yaml:"octaves"`
	Persistence         float64       `yaml:"persistence"`
	Lacunarity          float64       `yaml:"lacunarity"`
	Offset              mgl64.Vec2    `yaml:"offset,flow"`
	NormalizeMode       NormalizeMode `yaml:"normalize_mode"`
	NormalizationFactor float64       `yaml:"normalization_factor"`
	Algorithm           Kind          `yaml:"algorithm"`
}

// DefaultProfile returns the profile used when no configuration is supplied.
func DefaultProfile() Profile {
	return Profile{
		Seed:                0,
		Scale:               50,
		Octaves:             6,
		Persistence:         0.6,
		Lacunarity:          2,
		NormalizeMode:       NormalizeGlobal,
		NormalizationFactor: 1,
		Algorithm:           KindPerlin,
	}
}

// Clamped returns a copy with every user-tunable parameter pulled into its valid range.
// Out-of-range values are corrected rather than rejected.
func (p Profile) Clamped() Profile {
	if p.Scale <= 0 {
		p.Scale = MinScale
	}
	if p.Octaves < 0 {
		p.Octaves = 0
	}
	if p.Persistence < 0 {
		p.Persistence = 0
	}
	if p.Persistence > 1 {
		p.Persistence = 1
	}
	if p.Lacunarity < 1 {
		p.Lacunarity = 1
	}
	return p
}
