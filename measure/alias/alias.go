package alias

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-rackdsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	minFFTSize         = 64
	defaultGuardBins   = 4
	minPowerRatioFloor = 1e-30
)

var (
	// ErrInvalidSampleRate indicates a non-positive or non-finite sample rate.
	ErrInvalidSampleRate = errors.New("alias: invalid sample rate")
	// ErrInvalidFundamental indicates a fundamental outside (0, Nyquist).
	ErrInvalidFundamental = errors.New("alias: invalid fundamental")
	// ErrSignalTooShort indicates fewer analysable samples than the FFT needs.
	ErrSignalTooShort = errors.New("alias: signal too short")
)

// Report holds the result of one analysis.
type Report struct {
	// Fundamental is the analysed tone frequency in Hz.
	Fundamental float64
	// FFTSize is the analysed frame length.
	FFTSize int
	// Harmonics is the number of harmonics below Nyquist, fundamental included.
	Harmonics int

	FundamentalPower float64
	HarmonicPower    float64
	AliasPower       float64
	// AliasRatioDB is 10*log10(AliasPower / (FundamentalPower + HarmonicPower)).
	AliasRatioDB float64

	DC   float64
	RMS  float64
	Peak float64
}

type config struct {
	fftSize   int
	guardBins int
	skip      int
}

// Option configures Analyze.
type Option func(*config)

// WithFFTSize fixes the frame length. Values that are not a power of two are
// rounded down to one. By default the largest power of two that fits the
// signal is used.
func WithFFTSize(n int) Option {
	return func(c *config) {
		if n >= minFFTSize {
			c.fftSize = 1 << (bits.Len(uint(n)) - 1)
		}
	}
}

// WithGuardBins sets how many bins on each side of a harmonic count towards
// it. The default of 4 covers the Blackman-Harris main lobe.
func WithGuardBins(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.guardBins = n
		}
	}
}

// WithSkip ignores the first n samples, typically filter warm-up.
func WithSkip(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.skip = n
		}
	}
}

// Analyze windows signal with a periodic Blackman-Harris window, transforms
// it and splits the one-sided power spectrum into fundamental, harmonic and
// alias power. Bins within the guard of DC are excluded from all three.
func Analyze(signal []float64, sampleRate, fundamentalHz float64, opts ...Option) (Report, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Report{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if fundamentalHz <= 0 || fundamentalHz >= sampleRate/2 || math.IsNaN(fundamentalHz) {
		return Report{}, fmt.Errorf("%w: %v Hz at %v Hz", ErrInvalidFundamental, fundamentalHz, sampleRate)
	}

	cfg := config{guardBins: defaultGuardBins}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.skip >= len(signal) {
		return Report{}, fmt.Errorf("%w: %d samples, skip %d", ErrSignalTooShort, len(signal), cfg.skip)
	}

	seg := signal[cfg.skip:]

	n := cfg.fftSize
	if n == 0 && len(seg) >= minFFTSize {
		n = 1 << (bits.Len(uint(len(seg))) - 1)
	}

	if n < minFFTSize || n > len(seg) {
		return Report{}, fmt.Errorf("%w: need %d samples, have %d", ErrSignalTooShort, max(n, minFFTSize), len(seg))
	}

	frame := make([]float64, n)
	copy(frame, seg[:n])

	rep := Report{
		Fundamental: fundamentalHz,
		FFTSize:     n,
		DC:          stat.Mean(frame, nil),
		RMS:         math.Sqrt(floats.Dot(frame, frame) / float64(n)),
		Peak:        math.Max(floats.Max(frame), -floats.Min(frame)),
	}

	power, err := powerSpectrum(frame)
	if err != nil {
		return Report{}, err
	}

	owner, harmonics := classifyBins(len(power), n, sampleRate, fundamentalHz, cfg.guardBins)
	for k, p := range power {
		switch h := owner[k]; {
		case h < 0:
		case h == 1:
			rep.FundamentalPower += p
		case h > 1:
			rep.HarmonicPower += p
		default:
			rep.AliasPower += p
		}
	}

	rep.Harmonics = harmonics
	rep.AliasRatioDB = ratioDB(rep.AliasPower, rep.FundamentalPower+rep.HarmonicPower)

	return rep, nil
}

// powerSpectrum returns |X[k]|^2 for bins 0..n/2 of the windowed frame.
// frame is windowed in place.
func powerSpectrum(frame []float64) ([]float64, error) {
	n := len(frame)

	window.Apply(window.TypeBlackmanHarris, frame, window.WithPeriodic())

	in := make([]complex128, n)
	for i, v := range frame {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("alias: fft plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("alias: fft: %w", err)
	}

	half := n/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)

	for k := range half {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power := make([]float64, half)
	vecmath.Power(power, re, im)

	return power, nil
}

// classifyBins marks each one-sided bin with the harmonic number that owns
// it, -1 for the DC guard region and 0 for alias bins. Lower harmonics win
// overlapping guards. It also returns the number of harmonics below Nyquist.
func classifyBins(bins, n int, sampleRate, f0 float64, guard int) ([]int, int) {
	owner := make([]int, bins)

	for k := 0; k <= guard && k < bins; k++ {
		owner[k] = -1
	}

	binHz := sampleRate / float64(n)

	h := 1
	for ; float64(h)*f0 < sampleRate/2; h++ {
		centre := int(math.Round(float64(h) * f0 / binHz))
		lo := max(centre-guard, 0)
		hi := min(centre+guard, bins-1)

		for k := lo; k <= hi; k++ {
			if owner[k] == 0 {
				owner[k] = h
			}
		}
	}

	return owner, h - 1
}

func ratioDB(num, den float64) float64 {
	if den <= 0 {
		return math.Inf(1)
	}

	return 10 * math.Log10(math.Max(num/den, minPowerRatioFloor))
}
