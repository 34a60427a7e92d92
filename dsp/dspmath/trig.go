package dspmath

import "math"

// TwoPi is 2π.
const TwoPi = 2 * math.Pi

// WrapTwoPi maps an angle in radians to [-π, π].
func WrapTwoPi(n float64) float64 {
	b := n / TwoPi
	return (b - math.Round(b)) * TwoPi
}

// PhaseIncrement returns the per-sample phase step in radians of an
// oscillator at freq Hz.
func PhaseIncrement(freq, sampleRate float64) float64 {
	return TwoPi * freq / sampleRate
}

// QSinLP is a low-precision parabolic sine for x in [-3π, 3π].
// The maximum absolute error is about 0.056.
func QSinLP(x float64) float64 {
	if x < -math.Pi {
		x += TwoPi
	} else if x > math.Pi {
		x -= TwoPi
	}

	if x < 0 {
		return 1.27323954*x + 0.405284735*x*x
	}

	return 1.27323954*x - 0.405284735*x*x
}

// QSinHP is a higher precision parabolic sine for x in [-3π, 3π].
// The maximum absolute error is about 0.001.
func QSinHP(x float64) float64 {
	if x < -math.Pi {
		x += TwoPi
	} else if x > math.Pi {
		x -= TwoPi
	}

	var s float64
	if x < 0 {
		s = 1.27323954*x + 0.405284735*x*x
	} else {
		s = 1.27323954*x - 0.405284735*x*x
	}

	if s < 0 {
		return 0.225*(s*-s-s) + s
	}

	return 0.225*(s*s-s) + s
}

// FastSin approximates sin(angle) for angle in [-π, π].
func FastSin(angle float64) float64 {
	return QSinHP(angle)
}

// FastSinWrap approximates sin(angle) for any finite angle.
func FastSinWrap(angle float64) float64 {
	return QSinHP(WrapTwoPi(angle))
}
