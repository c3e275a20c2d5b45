package heightmap

import (
	"math"
	"sync"
	"testing"

	"endless-terrain/internal/noise"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLinearCurve(t *testing.T) {
	c := LinearCurve()
	for _, x := range []float64{0, 0.25, 0.5, 0.9, 1} {
		if got := c.Evaluate(x); math.Abs(got-x) > 1e-12 {
			t.Errorf("Evaluate(%v) = %v, want %v", x, got, x)
		}
	}
}

func TestCurveClampsOutsideKeys(t *testing.T) {
	c := NewCurve(
		Keyframe{Time: 1, Value: 5},
		Keyframe{Time: 0, Value: 2},
	)
	if got := c.Evaluate(-3); got != 2 {
		t.Errorf("Evaluate(-3) = %v, want first key value 2", got)
	}
	if got := c.Evaluate(4); got != 5 {
		t.Errorf("Evaluate(4) = %v, want last key value 5", got)
	}
}

func TestCurveEmptyAndSingle(t *testing.T) {
	var empty Curve
	if got := empty.Evaluate(0.5); got != 0 {
		t.Errorf("empty curve = %v, want 0", got)
	}
	single := NewCurve(Keyframe{Time: 0.3, Value: 7})
	if got := single.Evaluate(0.9); got != 7 {
		t.Errorf("single key curve = %v, want 7", got)
	}
}

func TestCurveHitsKeyValues(t *testing.T) {
	c := NewCurve(
		Keyframe{Time: 0, Value: 0},
		Keyframe{Time: 0.4, Value: 0.1, InTangent: 0.5, OutTangent: 0.5},
		Keyframe{Time: 1, Value: 1, InTangent: 2, OutTangent: 2},
	)
	// Walk backwards too so the cached segment is exercised in both directions.
	for _, k := range []Keyframe{c.Keys[1], c.Keys[0], c.Keys[1], c.Keys[2]} {
		if got := c.Evaluate(k.Time); math.Abs(got-k.Value) > 1e-12 {
			t.Errorf("Evaluate(%v) = %v, want %v", k.Time, got, k.Value)
		}
	}
}

// TestCloneConcurrent verifies per-goroutine clones give the same answers as a serial curve.
func TestCloneConcurrent(t *testing.T) {
	c := NewCurve(
		Keyframe{Time: 0, Value: 0, OutTangent: 0},
		Keyframe{Time: 0.5, Value: 0.2, InTangent: 1, OutTangent: 1},
		Keyframe{Time: 1, Value: 1, InTangent: 3},
	)
	want := make([]float64, 101)
	serial := c.Clone()
	for i := range want {
		want[i] = serial.Evaluate(float64(i) / 100)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := c.Clone()
			for n := range 50 {
				i := (n*7 + g*13) % len(want)
				if got := local.Evaluate(float64(i) / 100); got != want[i] {
					errs <- "clone disagrees with serial evaluation"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestSettingsMinMaxHeight(t *testing.T) {
	s := DefaultSettings()
	s.HeightMultiplier = 40
	if s.MinHeight() != 0 {
		t.Errorf("MinHeight = %v, want 0", s.MinHeight())
	}
	if s.MaxHeight() != 40 {
		t.Errorf("MaxHeight = %v, want 40", s.MaxHeight())
	}
}

func TestGenerateAppliesCurveAndMultiplier(t *testing.T) {
	s := DefaultSettings()
	s.HeightMultiplier = 10
	s.Noise.NormalizeMode = noise.NormalizeLocal
	center := mgl64.Vec2{50, 50}

	hm, err := Generate(21, 21, s, center)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	base := noise.GenerateNormalized(21, 21, s.Noise, center)

	for i, v := range base.Values {
		want := v * v * 10 // linear curve: v * curve(v) * multiplier
		if math.Abs(hm.Values.Values[i]-want) > 1e-9 {
			t.Fatalf("cell %d = %v, want %v", i, hm.Values.Values[i], want)
		}
	}
}

func TestGenerateTracksMinMax(t *testing.T) {
	hm, err := Generate(33, 33, DefaultSettings(), mgl64.Vec2{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range hm.Values.Values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hm.MinValue != lo || hm.MaxValue != hi {
		t.Errorf("tracked [%v,%v], actual [%v,%v]", hm.MinValue, hm.MaxValue, lo, hi)
	}
	if hm.Values.Min != lo || hm.Values.Max != hi {
		t.Errorf("grid bounds not updated")
	}
}

func TestGenerateRejectsEmptySize(t *testing.T) {
	if _, err := Generate(0, 10, DefaultSettings(), mgl64.Vec2{}); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestGenerateWithFalloffStaysInRange(t *testing.T) {
	s := DefaultSettings()
	s.UseFalloff = true
	s.HeightMultiplier = 1
	s.Noise.NormalizeMode = noise.NormalizeLocal
	hm, err := Generate(25, 25, s, mgl64.Vec2{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, v := range hm.Values.Values {
		if v < 0 || v > 1 {
			t.Fatalf("cell %d = %v, want within [0,1]", i, v)
		}
	}
	// Corners sit at the full falloff and must be flattened to zero.
	if got := hm.Values.At(0, 0); got != 0 {
		t.Errorf("corner = %v, want 0", got)
	}
}

func TestFalloffShape(t *testing.T) {
	f := Falloff(20, 3, 2.2)
	center := f.At(10, 10)
	edge := f.At(0, 10)
	if center != 0 {
		t.Errorf("center falloff = %v, want 0", center)
	}
	if edge != 1 {
		t.Errorf("edge falloff = %v, want 1", edge)
	}
	if mid := f.At(15, 10); mid <= center || mid >= edge {
		t.Errorf("falloff should rise toward the edge, got %v", mid)
	}
}
