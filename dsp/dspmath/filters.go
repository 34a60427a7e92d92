package dspmath

import "math"

const (
	integratorDecay = 0.25

	// DefaultDCBlockerPole is the pole radius used when no cutoff is set.
	DefaultDCBlockerPole = 0.999

	minDCBlockerPole = 0.9
	maxDCBlockerPole = 0.9999
)

// Integrator is a leaky integrator (one-pole smoother).
type Integrator struct {
	value float64
}

// Add moves the integrator towards in by a step proportional to fn and
// returns the new value. fn is a normalized rate in [0, 4].
func (i *Integrator) Add(in, fn float64) float64 {
	i.value = (in-i.value)*(integratorDecay*fn) + i.value
	return i.value
}

// Value returns the current integrator output.
func (i *Integrator) Value() float64 { return i.value }

// Reset clears the integrator.
func (i *Integrator) Reset() { i.value = 0 }

// DCBlocker removes constant offset: y[n] = x[n] - x[n-1] + R·y[n-1].
// The zero value uses DefaultDCBlockerPole.
type DCBlocker struct {
	r   float64
	xm1 float64
	ym1 float64
}

// NewDCBlocker returns a blocker with its corner at cutoffHz.
func NewDCBlocker(cutoffHz, sampleRate float64) DCBlocker {
	var d DCBlocker
	d.SetCutoff(cutoffHz, sampleRate)

	return d
}

// SetCutoff places the corner frequency. The pole is clamped to [0.9, 0.9999].
func (d *DCBlocker) SetCutoff(cutoffHz, sampleRate float64) {
	r := 1 - TwoPi*cutoffHz/sampleRate
	if math.IsNaN(r) {
		r = DefaultDCBlockerPole
	}

	d.r = ClampD(r, minDCBlockerPole, maxDCBlockerPole)
}

// Pole returns the feedback coefficient R.
func (d *DCBlocker) Pole() float64 {
	if d.r == 0 {
		return DefaultDCBlockerPole
	}

	return d.r
}

// Filter processes one sample.
func (d *DCBlocker) Filter(sample float64) float64 {
	y := sample - d.xm1 + d.Pole()*d.ym1
	d.xm1 = sample
	d.ym1 = y

	return y
}

// Reset clears the filter history.
func (d *DCBlocker) Reset() {
	d.xm1 = 0
	d.ym1 = 0
}

// Lowpass6dB is a first-order RC low-pass.
type Lowpass6dB struct {
	fc         float64
	sampleRate float64
	factor     int

	alpha float64
	y0    float64
}

// NewLowpass6dB creates a low-pass at fc Hz running at factor·sampleRate.
// factor is the oversampling ratio of the caller and is at least 1.
func NewLowpass6dB(fc, sampleRate float64, factor int) *Lowpass6dB {
	if factor < 1 {
		factor = 1
	}

	l := &Lowpass6dB{fc: fc, sampleRate: sampleRate, factor: factor}
	l.update()

	return l
}

// SetFrequency moves the corner frequency.
func (l *Lowpass6dB) SetFrequency(fc float64) {
	l.fc = fc
	l.update()
}

// SetSampleRate updates the native sample rate.
func (l *Lowpass6dB) SetSampleRate(sampleRate float64) {
	l.sampleRate = sampleRate
	l.update()
}

// Frequency returns the corner frequency in Hz.
func (l *Lowpass6dB) Frequency() float64 { return l.fc }

// Alpha returns the smoothing coefficient derived from fc and the rate.
func (l *Lowpass6dB) Alpha() float64 { return l.alpha }

func (l *Lowpass6dB) update() {
	rc := 1 / (l.fc * TwoPi)
	dt := 1 / (l.sampleRate * float64(l.factor))
	l.alpha = dt / (rc + dt)
}

// Filter processes one sample.
func (l *Lowpass6dB) Filter(x float64) float64 {
	l.y0 += l.alpha * (x - l.y0)
	return l.y0
}

// Reset clears the filter state.
func (l *Lowpass6dB) Reset() { l.y0 = 0 }
