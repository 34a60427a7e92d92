// Package dspmath provides the small numeric building blocks shared by the
// rack units: soft clippers, fast sine approximations, a band-limited
// impulse train, a leaky integrator, a DC blocker, a 6 dB/oct low-pass and
// allocation-free noise sources.
//
// All types are zero-allocation per sample and safe to call from an audio
// callback. None of them are safe for concurrent use.
package dspmath
