// Package interp provides the interpolation primitives used by the
// oversampler and the delay lines.
//
//   - [Linear]:   2-point linear interpolation, used to generate oversampled
//     sub-samples between two native samples
//   - [Hermite4]: 4-point cubic Hermite, the smoother fractional delay read
//
// The [Mode] enum selects the method at construction time of a delay line.
package interp
