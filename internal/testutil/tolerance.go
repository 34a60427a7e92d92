package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireBounded fails t if any element is non-finite or exceeds limit in
// magnitude.
func RequireBounded(t *testing.T, data []float64, limit float64) {
	t.Helper()

	RequireFinite(t, data)

	if p := Peak(data); p > limit {
		t.Fatalf("peak %v exceeds %v", p, limit)
	}
}

// Peak returns the largest absolute value in data, or 0 when empty.
func Peak(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	return math.Max(floats.Max(data), -floats.Min(data))
}

// RMS returns the root mean square of data, or 0 when empty.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}

	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}
