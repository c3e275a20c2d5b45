package noise

import (
	"math"
	"math/rand"
	"testing"
)

// TestHash2Deterministic verifies hash2 produces identical results for same inputs
func TestHash2Deterministic(t *testing.T) {
	first := hash2(10, 20, 42)
	for i := 0; i < 100; i++ {
		if h := hash2(10, 20, 42); h != first {
			t.Fatalf("hash2 not deterministic: %d != %d", h, first)
		}
	}
}

// TestHash2DifferentInputs verifies hash2 separates axes and seeds
func TestHash2DifferentInputs(t *testing.T) {
	if hash2(1, 0, 7) == hash2(2, 0, 7) {
		t.Error("hash2 should differ for different X")
	}
	if hash2(0, 1, 7) == hash2(0, 2, 7) {
		t.Error("hash2 should differ for different Y")
	}
	if hash2(1, 1, 100) == hash2(1, 1, 200) {
		t.Error("hash2 should differ for different seed")
	}
}

// TestAlgorithmsRange verifies every algorithm stays within [0,1]
func TestAlgorithmsRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for kind := range kindNames {
		alg := New(kind, 42)
		for i := 0; i < 1000; i++ {
			x := rng.Float64()*200 - 100
			y := rng.Float64()*200 - 100
			v := alg.Sample(x, y)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%v.Sample(%f, %f) = %f, expected in [0,1]", kind, x, y, v)
			}
		}
	}
}

// TestValueNoiseContinuity verifies smooth interpolation (no random jumps)
func TestValueNoiseContinuity(t *testing.T) {
	v := NewValue(42)
	a := v.Sample(1.0, 1.0)
	b := v.Sample(1.01, 1.0)
	if diff := math.Abs(a - b); diff >= 0.1 {
		t.Errorf("value noise not continuous: %f vs %f (diff %f)", a, b, diff)
	}
}

// TestValueNoiseLatticePoints verifies samples at integer coordinates hit lattice values
func TestValueNoiseLatticePoints(t *testing.T) {
	v := NewValue(9)
	if got, want := v.Sample(3, -4), latticeValue(3, -4, 9); got != want {
		t.Errorf("Sample(3,-4) = %f, want lattice value %f", got, want)
	}
}

func TestWhiteNoiseRepeatable(t *testing.T) {
	w := NewWhite(5)
	if w.Sample(1.25, 3.5) != w.Sample(1.25, 3.5) {
		t.Error("white noise should be repeatable at the same position")
	}
	if w.Sample(1.25, 3.5) == w.Sample(1.5, 3.5) {
		t.Error("white noise should differ at different positions")
	}
}
