// Package resample provides the integer-factor oversampler that wraps the
// nonlinear stages of the waveshapers and the ladder filter.
//
// Each native sample is expanded into factor sub-samples by linear
// interpolation between the previous and the current input, the wrapped
// [Computer] runs once per sub-sample, and a Kaiser-windowed sinc FIR
// band-limits the result to the native Nyquist frequency before it is
// decimated back to one output sample.
//
// Quality modes:
//   - QualityFast: 4 taps per phase
//   - QualityBalanced: 8 taps per phase (default)
//   - QualityBest: 16 taps per phase
//
// Factor 1 disables both interpolation and filtering.
package resample
