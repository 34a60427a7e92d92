package waveshaper

import (
	"fmt"

	"github.com/cwbudde/algo-rackdsp/dsp/core"
	"github.com/cwbudde/algo-rackdsp/dsp/dspmath"
	"github.com/cwbudde/algo-rackdsp/dsp/resample"
)

// Signal levels in volts and parameter ranges.
const (
	MaxBiasLevel   = 5.0
	MaxInputLevel  = 10.0
	MaxOutputLevel = 5.0
	MinGain        = 0.0
	MaxGain        = 20.0
	MaxK           = 10.0
	MaxAmplitude   = 1.0

	defaultOversampling = 8
	defaultStages       = 1
	dcCutoffHz          = 7.0
)

// Ports.
const (
	PortIn  core.Port = 0
	PortOut core.Port = 0
)

// Parameters.
const (
	ParamGain core.Param = iota
	ParamBias
	ParamK
	ParamAmpPos
	ParamAmpNeg
	ParamBlockDC
	numParams
)

var layout = core.Layout{Inputs: 1, Outputs: 1, Params: int(numParams)}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	oversampling int
	stages       int
	quality      resample.Quality
	blockDC      bool
}

func defaultConfig() config {
	return config{
		oversampling: defaultOversampling,
		stages:       defaultStages,
		quality:      resample.QualityBalanced,
		blockDC:      true,
	}
}

// WithOversampling sets the oversampling factor in [1, resample.MaxFactor].
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		if factor < 1 || factor > resample.MaxFactor {
			return fmt.Errorf("waveshaper: oversampling factor must be in [1, %d]: %d", resample.MaxFactor, factor)
		}

		cfg.oversampling = factor

		return nil
	}
}

// WithStages sets the number of cascaded fold stages in [1, MaxStages].
func WithStages(n int) Option {
	return func(cfg *config) error {
		if n < 1 || n > MaxStages {
			return fmt.Errorf("waveshaper: stages must be in [1, %d]: %d", MaxStages, n)
		}

		cfg.stages = n

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

// WithBlockDC sets the initial state of the output DC blocker.
func WithBlockDC(enabled bool) Option {
	return func(cfg *config) error {
		cfg.blockDC = enabled
		return nil
	}
}

// Shaper is an oversampled waveshaper unit with gain, bias, asymmetric
// amplitude and an optional DC blocker.
//
// Per sample the input is scaled by gain, offset by bias, scaled by
// 1+AmpPos or 1+AmpNeg depending on its sign, run through the kind's
// transfer curve at the oversampled rate and decimated back.
type Shaper struct {
	core.System

	kind Kind
	os   *resample.Oversampler
	fold folder
	dc   dspmath.DCBlocker

	gain    float64
	bias    float64
	ampPos  float64
	ampNeg  float64
	blockDC bool
}

// New constructs a shaper of the given kind.
func New(kind Kind, sampleRate float64, opts ...Option) (*Shaper, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("waveshaper: invalid kind: %d", kind)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	os, err := resample.New(cfg.oversampling, resample.WithQuality(cfg.quality))
	if err != nil {
		return nil, fmt.Errorf("waveshaper: %w", err)
	}

	s := &Shaper{
		kind: kind,
		os:   os,
		fold: newFolder(kind, cfg.stages),
	}

	sys, err := core.NewSystem(layout, sampleRate, s)
	if err != nil {
		return nil, fmt.Errorf("waveshaper: %w", err)
	}

	s.System = sys
	s.StoreParam(ParamGain, 1)
	s.StoreParam(ParamBlockDC, boolParam(cfg.blockDC))
	s.Invalidate()

	return s, nil
}

// NewLockhart constructs a Lockhart wavefolder.
func NewLockhart(sampleRate float64, opts ...Option) (*Shaper, error) {
	return New(KindLockhart, sampleRate, opts...)
}

// NewSerge constructs a Serge wavefolder.
func NewSerge(sampleRate float64, opts ...Option) (*Shaper, error) {
	return New(KindSerge, sampleRate, opts...)
}

// Kind returns the transfer curve of the shaper.
func (s *Shaper) Kind() Kind { return s.kind }

// Stages returns the number of cascaded fold stages.
func (s *Shaper) Stages() int { return s.fold.n }

// Oversampling returns the oversampling factor.
func (s *Shaper) Oversampling() int { return s.os.Factor() }

// OversampledRate returns the rate at which the transfer curve runs.
func (s *Shaper) OversampledRate() float64 {
	return s.SampleRate() * float64(s.os.Factor())
}

// Coefficients returns the decimation filter taps.
func (s *Shaper) Coefficients() []float64 { return s.os.Coefficients() }

// In returns the input port value.
func (s *Shaper) In() float64 { return s.Input(PortIn) }

// SetIn writes the input port.
func (s *Shaper) SetIn(v float64) { s.SetInput(PortIn, v) }

// Out returns the last output sample.
func (s *Shaper) Out() float64 { return s.Output(PortOut) }

// SetOut overwrites the output port.
func (s *Shaper) SetOut(v float64) { s.SetOutput(PortOut, v) }

// Gain returns the input gain parameter.
func (s *Shaper) Gain() float64 { return s.Param(ParamGain) }

// SetGain sets the input gain. It is clamped to [MinGain, MaxGain].
func (s *Shaper) SetGain(v float64) { s.SetParam(ParamGain, v) }

// Bias returns the bias parameter.
func (s *Shaper) Bias() float64 { return s.Param(ParamBias) }

// SetBias sets the input offset in volts, clamped to ±MaxBiasLevel.
func (s *Shaper) SetBias(v float64) { s.SetParam(ParamBias, v) }

// K returns the output shape parameter.
func (s *Shaper) K() float64 { return s.Param(ParamK) }

// SetK sets the output saturator drive in [0, MaxK]. The saturator runs
// with slope 1+k.
func (s *Shaper) SetK(v float64) { s.SetParam(ParamK, v) }

// Amplitude returns the positive and negative amplitude offsets.
func (s *Shaper) Amplitude() (kpos, kneg float64) {
	return s.Param(ParamAmpPos), s.Param(ParamAmpNeg)
}

// SetAmplitude sets the asymmetric pre-gain. Positive input is scaled by
// 1+kpos and negative input by 1+kneg; both are clamped to ±MaxAmplitude.
func (s *Shaper) SetAmplitude(kpos, kneg float64) {
	a := s.StoreParam(ParamAmpPos, kpos)
	b := s.StoreParam(ParamAmpNeg, kneg)

	if a || b {
		s.Invalidate()
	}
}

// BlockDC reports whether the output DC blocker is enabled.
func (s *Shaper) BlockDC() bool { return s.Param(ParamBlockDC) > 0.5 }

// SetBlockDC enables or disables the output DC blocker.
func (s *Shaper) SetBlockDC(enabled bool) { s.SetParam(ParamBlockDC, boolParam(enabled)) }

// Init zeroes gain, bias, k, amplitude and output and clears all history.
// A zero gain mutes the shaper until a new gain is set.
func (s *Shaper) Init() {
	s.StoreParam(ParamGain, 0)
	s.StoreParam(ParamBias, 0)
	s.StoreParam(ParamK, 0)
	s.StoreParam(ParamAmpPos, 0)
	s.StoreParam(ParamAmpNeg, 0)
	s.SetOutput(PortOut, 0)
	s.Invalidate()
	s.Reset()
}

// Reset clears oversampler, fold stage and DC blocker history.
func (s *Shaper) Reset() {
	s.os.Reset()
	s.fold.reset()
	s.dc.Reset()
}

// Invalidate recomputes cached parameters. It runs on every parameter or
// sample-rate change.
func (s *Shaper) Invalidate() {
	s.gain = core.Clamp(core.Sanitize(s.Param(ParamGain)), MinGain, MaxGain)
	s.bias = core.Clamp(core.Sanitize(s.Param(ParamBias)), -MaxBiasLevel, MaxBiasLevel)
	s.ampPos = core.Clamp(core.Sanitize(s.Param(ParamAmpPos)), -MaxAmplitude, MaxAmplitude)
	s.ampNeg = core.Clamp(core.Sanitize(s.Param(ParamAmpNeg)), -MaxAmplitude, MaxAmplitude)
	s.fold.drive = 1 + core.Clamp(core.Sanitize(s.Param(ParamK)), 0, MaxK)
	s.blockDC = s.BlockDC()
	s.dc.SetCutoff(dcCutoffHz, s.SampleRate())
}

// Process advances the shaper by one sample.
func (s *Shaper) Process() {
	x := core.Sanitize(s.Input(PortIn))*s.gain + s.bias
	if x > 0 {
		x *= 1 + s.ampPos
	} else {
		x *= 1 + s.ampNeg
	}

	y := s.os.Process(x, &s.fold)
	if s.blockDC {
		y = s.dc.Filter(y)
	}

	s.SetOutput(PortOut, y)
}

// ProcessSample processes one sample and returns the output.
func (s *Shaper) ProcessSample(x float64) float64 {
	s.SetInputAndProcess(PortIn, x)
	return s.Output(PortOut)
}

// ProcessInPlace processes a mono buffer in place.
func (s *Shaper) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = s.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (s *Shaper) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = s.ProcessSample(x)
	}
}

// SolverIterations returns the Lambert W steps spent on the last sub-sample.
func (s *Shaper) SolverIterations() int { return s.fold.iterations() }

func boolParam(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
