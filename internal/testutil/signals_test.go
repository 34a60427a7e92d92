package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 5, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}

	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}

	if math.Abs(s[12]-5) > 1e-12 {
		t.Fatalf("s[12] = %v, want 5", s[12])
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 10, 256)
	b := DeterministicNoise(42, 10, 256)
	c := DeterministicNoise(43, 10, 256)

	same := true

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}

		if a[i] < -10 || a[i] >= 10 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}

		if a[i] != c[i] {
			same = false
		}
	}

	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}

		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}

	if Peak(Impulse(4, 10)) != 0 {
		t.Fatal("out-of-range impulse position must give silence")
	}
}

func TestDCAndRamp(t *testing.T) {
	for i, v := range DC(-2.5, 4) {
		if v != -2.5 {
			t.Fatalf("DC[%d] = %v, want -2.5", i, v)
		}
	}

	RequireSliceNearlyEqual(t, Ramp(-1, 1, 5), []float64{-1, -0.5, 0, 0.5, 1}, 1e-15)
	RequireSliceNearlyEqual(t, Ramp(3, 7, 1), []float64{3}, 0)
}
