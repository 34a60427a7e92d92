package testutil

import (
	"math"
	"testing"
)

func TestPeak(t *testing.T) {
	if p := Peak([]float64{0.5, -3, 2}); p != 3 {
		t.Fatalf("Peak = %v, want 3", p)
	}

	if p := Peak(nil); p != 0 {
		t.Fatalf("Peak(nil) = %v, want 0", p)
	}
}

func TestRMS(t *testing.T) {
	if r := RMS(DC(-2, 16)); math.Abs(r-2) > 1e-15 {
		t.Fatalf("RMS = %v, want 2", r)
	}

	if r := RMS(DeterministicSine(1000, 48000, 1, 48000)); math.Abs(r-math.Sqrt2/2) > 1e-6 {
		t.Fatalf("RMS = %v, want 1/sqrt(2)", r)
	}

	if r := RMS(nil); r != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", r)
	}
}

func TestRequireBoundedPasses(t *testing.T) {
	RequireBounded(t, []float64{-1, 0.5, 1}, 1)
}
