package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rackdsp/dsp/window"
	"github.com/tphakala/simd/f64"
)

// designDecimator returns a linear-phase low-pass prototype with unity DC
// gain for decimation by factor.
func designDecimator(factor int, cfg config) ([]float64, error) {
	if factor <= 0 {
		return nil, ErrInvalidFactor
	}

	if cfg.tapsPerPhase <= 0 {
		return nil, errors.New("resample: taps per phase must be > 0")
	}

	if cfg.cutoffScale <= 0 || cfg.cutoffScale > 1 {
		return nil, errors.New("resample: cutoff scale must be in (0,1]")
	}

	nTaps := cfg.tapsPerPhase * factor

	fc := (0.5 / float64(factor)) * cfg.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	taps, err := window.Kaiser(nTaps, cfg.kaiserBeta)
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	center := 0.5 * float64(nTaps-1)
	for n := range nTaps {
		t := float64(n) - center
		taps[n] *= 2 * fc * sinc(2*fc*t)
	}

	sum := f64.Sum(taps)
	if sum == 0 {
		return nil, errors.New("resample: designed zero-sum filter")
	}

	f64.Scale(taps, taps, 1/sum)

	return taps, nil
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}
