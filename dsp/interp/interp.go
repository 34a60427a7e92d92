package interp

// Mode selects a fractional interpolation method.
type Mode int

const (
	// ModeLinear interpolates between two neighbours.
	ModeLinear Mode = iota
	// ModeHermite uses four neighbours with a cubic Hermite spline.
	ModeHermite
)

func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeHermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeLinear || m == ModeHermite
}

// Linear returns the point at x in [0,1] on the line from y0 (x=0) to y1 (x=1).
func Linear(x, y0, y1 float64) float64 {
	return y0 + x*(y1-y0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}
