package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rackdsp/dsp/core"
	"github.com/cwbudde/algo-rackdsp/dsp/interp"
)

// MaxFeedback bounds the feedback gain so the loop always decays.
const MaxFeedback = 0.999

// Ports.
const (
	PortIn  core.Port = 0
	PortOut core.Port = 0
)

// Parameters.
const (
	// ParamDelay is the delay time in samples.
	ParamDelay core.Param = iota
	// ParamFeedback is the feedback gain.
	ParamFeedback
	numParams
)

var layout = core.Layout{Inputs: 1, Outputs: 1, Params: int(numParams)}

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	maxDelay int
	mode     interp.Mode
	delay    float64
	feedback float64
}

// WithMaxDelay sets the delay capacity in samples. The default holds one
// second at the construction sample rate.
func WithMaxDelay(samples int) Option {
	return func(cfg *config) error {
		if samples < 1 {
			return fmt.Errorf("delay: max delay must be >= 1: %d", samples)
		}

		cfg.maxDelay = samples

		return nil
	}
}

// WithInterpolation selects the fractional read mode.
func WithInterpolation(mode interp.Mode) Option {
	return func(cfg *config) error {
		if !mode.Valid() {
			return fmt.Errorf("delay: invalid interpolation mode: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithDelay sets the initial delay in samples.
func WithDelay(samples float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(samples) {
			return fmt.Errorf("delay: delay must be finite: %v", samples)
		}

		cfg.delay = samples

		return nil
	}
}

// WithFeedback sets the initial feedback gain.
func WithFeedback(fb float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(fb) {
			return fmt.Errorf("delay: feedback must be finite: %v", fb)
		}

		cfg.feedback = fb

		return nil
	}
}

// Feedback is a feedback delay unit.
//
// Each sample it reads the delayed signal into the output port and writes
// the input plus the feedback-scaled output back into the line. A delay of
// N samples therefore reproduces an input impulse exactly N samples later.
type Feedback struct {
	core.System

	line     *Line
	maxDelay float64

	whole int
	frac  float64
	fb    float64
}

// NewFeedback constructs a feedback delay.
func NewFeedback(sampleRate float64, opts ...Option) (*Feedback, error) {
	cfg := config{mode: interp.ModeHermite, delay: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	d := &Feedback{}

	sys, err := core.NewSystem(layout, sampleRate, d)
	if err != nil {
		return nil, fmt.Errorf("delay: %w", err)
	}

	if cfg.maxDelay == 0 {
		cfg.maxDelay = int(math.Ceil(sampleRate))
	}

	// Two samples of headroom for the four-point read.
	line, err := NewLine(cfg.maxDelay+2, cfg.mode)
	if err != nil {
		return nil, err
	}

	d.System = sys
	d.line = line
	d.maxDelay = math.Min(float64(cfg.maxDelay), line.MaxDelay())
	d.StoreParam(ParamDelay, cfg.delay)
	d.StoreParam(ParamFeedback, cfg.feedback)
	d.Invalidate()

	return d, nil
}

// MaxDelay returns the delay capacity in samples.
func (d *Feedback) MaxDelay() float64 { return d.maxDelay }

// Interpolation returns the fractional read mode.
func (d *Feedback) Interpolation() interp.Mode { return d.line.Mode() }

// Delay returns the delay parameter in samples.
func (d *Feedback) Delay() float64 { return d.Param(ParamDelay) }

// SetDelay sets the delay in samples. It is clamped to [1, MaxDelay()].
func (d *Feedback) SetDelay(samples float64) { d.SetParam(ParamDelay, samples) }

// EffectiveDelay returns the delay actually applied after clamping.
func (d *Feedback) EffectiveDelay() float64 { return float64(d.whole) + d.frac }

// FeedbackGain returns the feedback parameter.
func (d *Feedback) FeedbackGain() float64 { return d.Param(ParamFeedback) }

// SetFeedback sets the feedback gain. It is clamped to ±MaxFeedback.
func (d *Feedback) SetFeedback(fb float64) { d.SetParam(ParamFeedback, fb) }

// SetIn writes the input port.
func (d *Feedback) SetIn(v float64) { d.SetInput(PortIn, v) }

// Out returns the last output sample.
func (d *Feedback) Out() float64 { return d.Output(PortOut) }

// Reset clears the delay line and the output.
func (d *Feedback) Reset() {
	d.line.Reset()
	d.SetOutput(PortOut, 0)
}

// Invalidate splits the clamped delay into whole and fractional parts and
// clamps the feedback gain.
func (d *Feedback) Invalidate() {
	delay := clampDelay(d.Param(ParamDelay), d.maxDelay)
	whole := math.Floor(delay)

	d.whole = int(whole)
	d.frac = delay - whole
	d.fb = core.Clamp(core.Sanitize(d.Param(ParamFeedback)), -MaxFeedback, MaxFeedback)
}

// Process advances the delay by one sample.
func (d *Feedback) Process() {
	in := core.Sanitize(d.Input(PortIn))
	out := d.line.readSplit(d.whole, d.frac)

	d.line.Write(core.FlushDenormals(in + d.fb*out))
	d.SetOutput(PortOut, out)
}

// ProcessSample processes one sample and returns the delayed output.
func (d *Feedback) ProcessSample(x float64) float64 {
	d.SetInputAndProcess(PortIn, x)
	return d.Output(PortOut)
}

// ProcessInPlace processes a mono buffer in place.
func (d *Feedback) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// ProcessTo processes src into dst. Both slices must have the same length.
func (d *Feedback) ProcessTo(dst, src []float64) {
	n := len(src)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	for i, x := range src {
		dst[i] = d.ProcessSample(x)
	}
}
