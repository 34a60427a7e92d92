package dspmath

import "math"

// BLIT evaluates a band-limited impulse train with n harmonics at phase
// (radians). The pulse peak is normalized to 1.
func BLIT(n, phase float64) float64 {
	den := math.Sin(0.5 * phase)
	if math.Abs(den) < 1e-9 {
		return 1
	}

	return math.Sin(0.5*n*phase) / (n * den)
}
