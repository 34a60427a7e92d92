package ladder

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rackdsp/dsp/core"
	"github.com/cwbudde/algo-rackdsp/dsp/dspmath"
	"github.com/cwbudde/algo-rackdsp/dsp/resample"
)

const (
	// Oversample is the internal oversampling factor.
	Oversample = 8
	// NoiseGain is the amplitude of the noise injected on every internal tick.
	NoiseGain = 10e-10
	// MaxResonance is the feedback amount at full resonance knob.
	MaxResonance = 1.5

	minFreqHz      = 20.0
	freqRange      = 1000.0
	maxFreqRatio   = 0.45
	maxDriveGain   = 10.0
	voltageScale   = 10.0
	defaultFreq    = 0.5
	defaultSeed    = 1
	clipLevel      = math.Sqrt2
	clipLevelInv   = 1 / math.Sqrt2
	resonanceCurve = 2.0
)

// Ports.
const (
	PortIn      core.Port = 0
	PortLowpass core.Port = 0
)

// Parameters, all normalized knob values in [0, 1].
const (
	ParamFrequency core.Param = iota
	ParamResonance
	ParamDrive
	numParams
)

var layout = core.Layout{Inputs: 1, Outputs: 1, Params: int(numParams)}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	frequency float64
	resonance float64
	drive     float64
	seed      uint64
	quality   resample.Quality
}

func defaultConfig() config {
	return config{
		frequency: defaultFreq,
		seed:      defaultSeed,
		quality:   resample.QualityBalanced,
	}
}

// WithFrequency sets the initial frequency knob in [0, 1].
func WithFrequency(knob float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(knob, 0, 1, "frequency"); err != nil {
			return err
		}

		cfg.frequency = knob

		return nil
	}
}

// WithResonance sets the initial resonance knob in [0, 1].
func WithResonance(knob float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(knob, 0, 1, "resonance"); err != nil {
			return err
		}

		cfg.resonance = knob

		return nil
	}
}

// WithDrive sets the initial drive knob in [0, 1].
func WithDrive(knob float64) Option {
	return func(cfg *config) error {
		if err := validateFiniteRange(knob, 0, 1, "drive"); err != nil {
			return err
		}

		cfg.drive = knob

		return nil
	}
}

// WithSeed seeds the internal noise source.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithQuality selects the decimation filter quality.
func WithQuality(q resample.Quality) Option {
	return func(cfg *config) error {
		cfg.quality = q
		return nil
	}
}

// State contains the cascade history for save/restore workflows.
// B[0] holds the last feedback-corrected input, B[1]..B[4] the poles and
// B[5] the last decimated output.
type State struct {
	B [6]float64
}

// Filter is an oversampled four-pole ladder low-pass.
type Filter struct {
	core.System

	os    *resample.Oversampler
	noise *dspmath.Noise
	state State

	freqKnob float64
	resKnob  float64
	rate     float64

	freqExp float64
	freqHz  float64
	resExp  float64
	gain    float64

	f, p, q float64
}

// New constructs a ladder filter.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	os, err := resample.New(Oversample, resample.WithQuality(cfg.quality))
	if err != nil {
		return nil, fmt.Errorf("ladder: %w", err)
	}

	f := &Filter{
		os:       os,
		noise:    dspmath.NewNoise(cfg.seed),
		freqKnob: math.NaN(),
		resKnob:  math.NaN(),
	}

	sys, err := core.NewSystem(layout, sampleRate, f)
	if err != nil {
		return nil, fmt.Errorf("ladder: %w", err)
	}

	f.System = sys
	f.StoreParam(ParamFrequency, cfg.frequency)
	f.StoreParam(ParamResonance, cfg.resonance)
	f.StoreParam(ParamDrive, cfg.drive)
	f.Invalidate()

	return f, nil
}

// Frequency returns the frequency knob.
func (f *Filter) Frequency() float64 { return f.Param(ParamFrequency) }

// SetFrequency sets the frequency knob, clamped to [0, 1].
func (f *Filter) SetFrequency(knob float64) { f.SetParam(ParamFrequency, knob) }

// Resonance returns the resonance knob.
func (f *Filter) Resonance() float64 { return f.Param(ParamResonance) }

// SetResonance sets the resonance knob, clamped to [0, 1].
func (f *Filter) SetResonance(knob float64) { f.SetParam(ParamResonance, knob) }

// Drive returns the drive knob.
func (f *Filter) Drive() float64 { return f.Param(ParamDrive) }

// SetDrive sets the drive knob, clamped to [0, 1].
func (f *Filter) SetDrive(knob float64) { f.SetParam(ParamDrive, knob) }

// FreqHz returns the cutoff frequency in Hz derived from the frequency knob.
func (f *Filter) FreqHz() float64 { return f.freqHz }

// Tuning returns the cascade coefficients: pole feedback f, pole gain p and
// resonance feedback q.
func (f *Filter) Tuning() (fb, p, q float64) { return f.f, f.p, f.q }

// SetIn writes the input port.
func (f *Filter) SetIn(v float64) { f.SetInput(PortIn, v) }

// LowpassOut returns the last low-pass output sample.
func (f *Filter) LowpassOut() float64 { return f.Output(PortLowpass) }

// Reset clears cascade and oversampler history. The noise stream continues.
func (f *Filter) Reset() {
	f.state = State{}
	f.os.Reset()
	f.SetOutput(PortLowpass, 0)
}

// State returns a copy of the cascade history.
func (f *Filter) State() State { return f.state }

// SetState restores an externally saved cascade history.
func (f *Filter) SetState(state State) error {
	for _, v := range state.B {
		if !core.IsFinite(v) {
			return fmt.Errorf("ladder: state contains NaN or Inf")
		}
	}

	f.state = state
	f.SetOutput(PortLowpass, state.B[5])

	return nil
}

// Invalidate recomputes the exponential knob mappings that changed and the
// cascade coefficients.
func (f *Filter) Invalidate() {
	sr := f.SampleRate()

	freq := core.Clamp(core.Sanitize(f.Param(ParamFrequency)), 0, 1)
	if freq != f.freqKnob || sr != f.rate {
		f.freqKnob = freq
		f.rate = sr
		f.freqExp = math.Pow(freqRange, freq)
		f.freqHz = math.Min(minFreqHz*f.freqExp, maxFreqRatio*sr)
	}

	res := core.Clamp(core.Sanitize(f.Param(ParamResonance)), 0, 1)
	if res != f.resKnob {
		f.resKnob = res
		f.updateResExp()
	}

	f.gain = 1 + (maxDriveGain-1)*core.Clamp(core.Sanitize(f.Param(ParamDrive)), 0, 1)

	fn := 2 * f.freqHz / (sr * Oversample)
	q0 := 1 - fn
	f.p = fn + 0.8*fn*q0
	f.f = 2*f.p - 1
	f.q = f.resExp * MaxResonance * (1 + 0.5*q0*(1-q0+5.6*q0*q0))
}

func (f *Filter) updateResExp() {
	f.resExp = (math.Exp(resonanceCurve*f.resKnob) - 1) / (math.Exp(resonanceCurve) - 1)
}

// Process advances the filter by one sample.
func (f *Filter) Process() {
	x := core.Sanitize(f.Input(PortIn)) * f.gain / voltageScale

	b := &f.state.B
	sub := f.os.Upsample(x)

	for i, xi := range sub {
		in := xi - f.q*b[4] + f.noise.Next()*NoiseGain

		t1 := b[1]
		b[1] = (in+b[0])*f.p - b[1]*f.f
		t2 := b[2]
		b[2] = (b[1]+t1)*f.p - b[2]*f.f
		t1 = b[3]
		b[3] = (b[2]+t2)*f.p - b[3]*f.f
		b[4] = (b[3]+t1)*f.p - b[4]*f.f
		b[4] = dspmath.Clip(b[4], clipLevel, clipLevelInv)
		b[0] = in

		sub[i] = b[4]
	}

	for i := range b[:5] {
		b[i] = core.FlushDenormals(b[i])
	}

	b[5] = f.os.Downsample(sub) * voltageScale
	f.SetOutput(PortLowpass, b[5])
}

// ProcessSample processes one sample and returns the low-pass output.
func (f *Filter) ProcessSample(x float64) float64 {
	f.SetInputAndProcess(PortIn, x)
	return f.Output(PortLowpass)
}

// ProcessInPlace processes a mono buffer in place.
func (f *Filter) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (f *Filter) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

func validateFiniteRange(value, min, max float64, name string) error {
	if !core.IsFinite(value) {
		return fmt.Errorf("ladder: %s must be finite: %v", name, value)
	}

	if value < min || value > max {
		return fmt.Errorf("ladder: %s must be in [%g, %g]: %f", name, min, max, value)
	}

	return nil
}
