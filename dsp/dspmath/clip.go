package dspmath

import "math"

// Clip is a cubic soft clipper with saturation level sat and satInv = 1/sat.
// The output is bounded to ±2/3·sat and equals x - x³/(3·sat²) inside the knee.
func Clip(x, sat, satInv float64) float64 {
	v := x * satInv

	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}

	return sat * (v - (1.0/3.0)*v*v*v)
}

// ClampD limits x to [min, max].
func ClampD(x, min, max float64) float64 {
	return math.Max(math.Min(x, max), min)
}

// ClipLow returns clip if in is below it.
func ClipLow(in, clip float64) float64 {
	if in < clip {
		return clip
	}

	return in
}

// ClipHigh returns clip if in is above it.
func ClipHigh(in, clip float64) float64 {
	if in > clip {
		return clip
	}

	return in
}

// Shape1 is a rational waveshaper with amount a in [0, 1). It is the
// identity for a = 0 and approaches ±2(1+k)/k with k = 2a/(1-a) otherwise.
func Shape1(a, x float64) float64 {
	if a >= 1 {
		a = 0.999
	}

	k := 2 * a / (1 - a)
	h := 0.5 * x
	b := (1 + k) * h / (1 + k*math.Abs(h))

	return b * 2
}

// Saturate limits x softly to ±a with unit slope at the origin.
func Saturate(x, a float64) float64 {
	if a <= 0 {
		return 0
	}

	return a * math.Tanh(x/a)
}

// Overdrive is an asymmetric tube-like saturation curve. Positive input
// saturates at 1, negative input overshoots to about -2.6 before settling
// back towards -1.
func Overdrive(input float64) float64 {
	// exp overflows past ~709 and a <= 2.
	x := ClampD(input*0.686306, -300, 300)
	a := 1 + math.Exp(math.Sqrt(math.Abs(x))*-0.75)

	return (math.Exp(x) - math.Exp(-x*a)) / (math.Exp(x) + math.Exp(-x))
}
