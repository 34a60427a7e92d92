package waveshaper

import "math"

const (
	maxLambertIterations = 32
	lambertTolerance     = 1e-12
)

// LambertW returns the principal branch W(u) for u = exp(lnArg), together
// with the number of refinement steps taken.
//
// The argument is passed in the log domain so that large folder inputs do
// not overflow. Below lnArg = 1 the solver runs Halley's method on
// w·exp(w) = u. Above it runs Newton's method on w + ln(w) = lnArg, which
// stays in range for any finite lnArg. guess seeds the iteration, typically
// with the result for the previous sample. The step count never exceeds
// maxLambertIterations.
func LambertW(lnArg, guess float64) (float64, int) {
	switch {
	case math.IsNaN(lnArg) || math.IsInf(lnArg, -1):
		return 0, 0
	case math.IsInf(lnArg, 1):
		return lnArg, 0
	}

	if lnArg < 1 {
		return lambertHalley(math.Exp(lnArg), guess)
	}

	return lambertLogNewton(lnArg, guess)
}

func lambertHalley(u, guess float64) (float64, int) {
	w := clampGuess(guess, 0, 1)

	for i := range maxLambertIterations {
		ew := math.Exp(w)
		f := w*ew - u
		wp1 := w + 1

		delta := f / (ew*wp1 - (w+2)*f/(2*wp1))
		w -= delta

		if math.Abs(delta) <= lambertTolerance*math.Abs(w) {
			return w, i + 1
		}
	}

	return w, maxLambertIterations
}

func lambertLogNewton(lnArg, guess float64) (float64, int) {
	// W(exp(L)) lies in [1, L] for L >= 1.
	w := clampGuess(guess, 1, lnArg)

	for i := range maxLambertIterations {
		next := w * (1 + lnArg - math.Log(w)) / (1 + w)
		delta := next - w
		w = next

		if math.Abs(delta) <= lambertTolerance*w {
			return w, i + 1
		}
	}

	return w, maxLambertIterations
}

func clampGuess(guess, lo, hi float64) float64 {
	switch {
	case math.IsNaN(guess) || guess < lo:
		return lo
	case guess > hi:
		return hi
	default:
		return guess
	}
}
