// Package delay provides delay primitives for modular DSP units.
//
// Line is a fixed-capacity circular buffer with integer and fractional
// reads. Feedback is a core.System unit implementing a feedback delay with a
// fractional, clamped delay time. Shift is a fixed z^-N sample delay.
package delay
