package resample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-rackdsp/dsp/interp"
	"github.com/tphakala/simd/f64"
)

// MaxFactor is the largest supported oversampling ratio.
const MaxFactor = 64

// ErrInvalidFactor indicates an oversampling ratio outside [1, MaxFactor].
var ErrInvalidFactor = errors.New("resample: invalid oversampling factor")

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityBest:
		return "best"
	default:
		return "unknown"
	}
}

// Profile exposes default decimation filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase int
	CutoffScale  float64
	KaiserBeta   float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 4, CutoffScale: 0.85, KaiserBeta: 5.0}
	case QualityBest:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.94, KaiserBeta: 8.6}
	default:
		return Profile{TapsPerPhase: 8, CutoffScale: 0.9, KaiserBeta: 7.0}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures the oversampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides decimation taps per sub-sample phase.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in range (0, 1].
// 1.0 places the cutoff at the native Nyquist frequency.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta >= 0 {
			cfg.kaiserBeta = beta
		}
	}
}

func defaultConfig() config {
	return config{quality: QualityBalanced, kaiserBeta: -1}
}

func (c config) finalized() config {
	p := QualityProfile(c.quality)
	if c.tapsPerPhase <= 0 {
		c.tapsPerPhase = p.TapsPerPhase
	}

	if c.cutoffScale <= 0 || c.cutoffScale > 1 {
		c.cutoffScale = p.CutoffScale
	}

	if c.kaiserBeta < 0 {
		c.kaiserBeta = p.KaiserBeta
	}

	return c
}

// Computer is a per-sample transfer function evaluated at the oversampled rate.
type Computer interface {
	Compute(x float64) float64
}

// ComputeFunc adapts a plain function to Computer.
type ComputeFunc func(x float64) float64

// Compute calls f(x).
func (f ComputeFunc) Compute(x float64) float64 { return f(x) }

// Oversampler runs a nonlinear function at factor times the native rate.
//
// All buffers are allocated by New; Upsample, Downsample and Process do not
// allocate.
type Oversampler struct {
	factor  int
	quality Quality

	y0, y1 float64
	up     []float64

	taps []float64
	hist []float64
	pos  int
}

// New creates an oversampler with a fixed integer factor.
func New(factor int, opts ...Option) (*Oversampler, error) {
	if factor < 1 || factor > MaxFactor {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg = cfg.finalized()

	o := &Oversampler{
		factor:  factor,
		quality: cfg.quality,
		up:      make([]float64, factor),
	}

	if factor == 1 {
		return o, nil
	}

	taps, err := designDecimator(factor, cfg)
	if err != nil {
		return nil, err
	}

	o.taps = taps
	o.hist = make([]float64, 2*len(taps))

	return o, nil
}

// Factor returns the oversampling ratio.
func (o *Oversampler) Factor() int { return o.factor }

// Quality returns the configured quality mode.
func (o *Oversampler) Quality() Quality { return o.quality }

// Coefficients returns a copy of the decimation FIR. It is empty for factor 1.
func (o *Oversampler) Coefficients() []float64 {
	out := make([]float64, len(o.taps))
	copy(out, o.taps)

	return out
}

// Latency returns the group delay of the decimation filter in native samples.
func (o *Oversampler) Latency() float64 {
	if len(o.taps) == 0 {
		return 0
	}

	return 0.5 * float64(len(o.taps)-1) / float64(o.factor)
}

// Next shifts y in as the current native sample.
func (o *Oversampler) Next(y float64) {
	o.y0 = o.y1
	o.y1 = y
}

// Interpolate returns the linear interpolation between the previous (x=0)
// and the current (x=1) native sample.
func (o *Oversampler) Interpolate(x float64) float64 {
	return interp.Linear(x, o.y0, o.y1)
}

// Upsample shifts y in and returns factor sub-samples ending at y.
//
// The returned slice is owned by the oversampler and is overwritten by the
// next call. Callers may transform it in place and pass it to Downsample.
func (o *Oversampler) Upsample(y float64) []float64 {
	o.Next(y)

	if o.factor == 1 {
		o.up[0] = y
		return o.up
	}

	n := float64(o.factor)
	for i := range o.up {
		o.up[i] = o.Interpolate(float64(i+1) / n)
	}

	return o.up
}

// Downsample feeds oversampled values through the decimation filter and
// returns one native-rate sample.
func (o *Oversampler) Downsample(sub []float64) float64 {
	if len(o.taps) == 0 {
		if len(sub) == 0 {
			return 0
		}

		return sub[len(sub)-1]
	}

	n := len(o.taps)
	for _, v := range sub {
		o.hist[o.pos] = v
		o.hist[o.pos+n] = v

		o.pos++
		if o.pos == n {
			o.pos = 0
		}
	}

	// hist[pos:pos+n] runs from the oldest to the newest sub-sample; the
	// prototype is symmetric so it needs no reversal.
	return f64.DotProduct(o.taps, o.hist[o.pos:o.pos+n])
}

// Process runs c once per sub-sample of y and returns the decimated result.
func (o *Oversampler) Process(y float64, c Computer) float64 {
	sub := o.Upsample(y)
	for i, x := range sub {
		sub[i] = c.Compute(x)
	}

	return o.Downsample(sub)
}

// Reset clears interpolation and filter history.
func (o *Oversampler) Reset() {
	o.y0 = 0
	o.y1 = 0
	o.pos = 0

	for i := range o.hist {
		o.hist[i] = 0
	}

	for i := range o.up {
		o.up[i] = 0
	}
}
