package waveshaper

import (
	"math"

	"github.com/cwbudde/algo-rackdsp/dsp/core"
)

// Lockhart circuit constants.
const (
	LockhartRL = 7.5e3
	LockhartR  = 15e3
	LockhartVT = 26e-3
	LockhartIs = 10e-16
)

// Serge diode-pair constants. SergeVT is the ideality-scaled thermal voltage.
const (
	SergeR  = 33e3
	SergeIs = 2.52e-9
	SergeVT = 1.752 * 25.864e-3
)

// Threshold is the smallest input step for which the antiderivative
// difference quotient is used. Closer inputs are evaluated directly at
// their midpoint.
const Threshold = 10e-10

// StageState is the history a fold stage carries between samples: the last
// Lambert W value, antiderivative value and input.
type StageState struct {
	Ln1 float64
	Fn1 float64
	Xn1 float64
}

// curve describes f(x) = l·m·(W(d·exp(l·b·x)) - W(d)) - a·x with
// l = sign(x). Subtracting W(d) makes f odd and continuous at zero.
type curve struct {
	m, b, a float64
	lnD     float64
	w0      float64
}

func newCurve(m, b, a, d float64) curve {
	lnD := math.Log(d)
	w0, _ := LambertW(lnD, 0)

	return curve{m: m, b: b, a: a, lnD: lnD, w0: w0}
}

func lockhartCurve() curve {
	return newCurve(
		LockhartVT,
		(LockhartR+2*LockhartRL)/(LockhartVT*LockhartR),
		2*LockhartRL/LockhartR,
		LockhartRL*LockhartIs/LockhartVT,
	)
}

func sergeCurve() curve {
	return newCurve(-2*SergeVT, 1/SergeVT, -1, SergeR*SergeIs/SergeVT)
}

// FoldStage is one antiderivative anti-aliased fold stage.
type FoldStage struct {
	c     curve
	state StageState
	iters int
}

// NewLockhartStage returns a reset Lockhart stage.
func NewLockhartStage() FoldStage {
	s := FoldStage{c: lockhartCurve()}
	s.Reset()

	return s
}

// NewSergeStage returns a reset Serge stage.
func NewSergeStage() FoldStage {
	s := FoldStage{c: sergeCurve()}
	s.Reset()

	return s
}

// Compute advances the stage by one sample.
//
// The result depends only on x and the stage state, which Compute replaces.
func (s *FoldStage) Compute(x float64) float64 {
	w, iters := s.lambert(x, s.state.Ln1)
	fn := s.antiderivative(x, w)

	var out float64
	if dx := x - s.state.Xn1; math.Abs(dx) < Threshold {
		xn := 0.5 * (x + s.state.Xn1)
		wn, n := s.lambert(xn, w)
		iters += n
		out = s.c.eval(xn, wn)
	} else {
		out = (fn - s.state.Fn1) / dx
	}

	s.state = StageState{Ln1: w, Fn1: fn, Xn1: x}
	s.iters = iters

	return out
}

// Transfer evaluates the static fold curve without touching the state.
func (s *FoldStage) Transfer(x float64) float64 {
	w, _ := s.lambert(x, s.state.Ln1)
	return s.c.eval(x, w)
}

// Iterations returns the solver steps spent by the last Compute call.
func (s *FoldStage) Iterations() int { return s.iters }

// State returns a copy of the stage history.
func (s *FoldStage) State() StageState { return s.state }

// SetState replaces the stage history.
func (s *FoldStage) SetState(state StageState) { s.state = state }

// Reset returns the stage to the state of a zero input history.
func (s *FoldStage) Reset() {
	w, _ := s.lambert(0, 0)
	s.state = StageState{Ln1: w, Fn1: s.antiderivative(0, w)}
	s.iters = 0
}

func (s *FoldStage) lambert(x, guess float64) (float64, int) {
	return LambertW(s.c.lnD+core.Sign(x)*s.c.b*x, guess)
}

// eval returns f(x), given w = W(d·exp(l·b·x)).
func (c curve) eval(x, w float64) float64 {
	return core.Sign(x)*c.m*(w-c.w0) - c.a*x
}

// antiderivative of the fold curve, given w = W(d·exp(l·b·x)).
func (s *FoldStage) antiderivative(x, w float64) float64 {
	c := s.c
	return c.m/(2*c.b)*w*(w+2) - c.m*c.w0*math.Abs(x) - 0.5*c.a*x*x
}
