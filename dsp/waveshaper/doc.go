// Package waveshaper provides oversampled analog wavefolder models for
// modular synthesizer voices.
//
// Supported kinds:
//   - KindLinear: identity transfer, useful as a bypass or reference.
//   - KindLockhart: Lockhart diode wavefolder (Esqueda, Välimäki, Bilbao 2016).
//   - KindSerge: Serge diode-pair folder (Esqueda, Pöntynen, Välimäki, Parker 2017).
//
// Both folder models are expressed in closed form through the Lambert W
// function and use first-order antiderivative anti-aliasing on top of the
// oversampler. Each Shaper embeds core.System, so parameters follow the
// change-detection and invalidation contract of that package.
//
// A Shaper is stateful and not safe for concurrent use.
package waveshaper
