// Package alias measures harmonic and non-harmonic spectral power of a
// periodic test tone.
//
// A nonlinear stage driven by a sine of frequency f0 produces energy at the
// harmonics k*f0. Components above Nyquist fold back to frequencies that are
// generally not multiples of f0; Analyze sums everything outside the harmonic
// bins as alias power and reports it relative to the harmonic power.
package alias
