// Package ladder provides an oversampled four-pole ladder low-pass filter
// with knob-style controls and noise-seeded self-oscillation.
//
// The cascade follows the Stilson/Smith "Moog VCF, variation 1" update with
// resonance compensation, runs 8x oversampled, and soft-clips the last pole
// so that any resonance setting yields bounded output. A small noise floor
// is injected on every internal tick so that the filter starts oscillating
// from silence once resonance passes the threshold.
//
// Controls take normalized knob values in [0, 1]:
//   - Frequency maps exponentially to 20 Hz..20 kHz, limited below Nyquist.
//   - Resonance maps exponentially to 0..MaxResonance.
//   - Drive maps linearly to an input gain of 1..10.
//
// Input and output are in module volts. Filter embeds core.System and is not
// safe for concurrent use.
package ladder
