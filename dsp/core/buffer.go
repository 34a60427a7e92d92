package core

import "github.com/cwbudde/algo-vecmath"

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// ScaleInto writes gain*src into dst. Both slices must have the same length.
func ScaleInto(dst, src []float64, gain float64) {
	if len(src) == 0 {
		return
	}

	vecmath.ScaleBlock(dst[:len(src)], src, gain)
}

// AddInto accumulates src into dst. Both slices must have the same length.
func AddInto(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	vecmath.AddBlockInPlace(dst[:len(src)], src)
}
