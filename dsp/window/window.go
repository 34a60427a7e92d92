package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeBlackmanHarris
	TypeKaiser
)

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeBlackmanHarris:
		return "blackman-harris"
	case TypeKaiser:
		return "kaiser"
	default:
		return "unknown"
	}
}

var (
	hannCoeffs           = []float64{0.5, -0.5}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
)

// Option configures window generation.
type Option func(*config)

type config struct {
	beta     float64
	periodic bool
}

func defaultConfig() config {
	return config{beta: 8.6}
}

// WithBeta sets the Kaiser shape parameter. Negative values are ignored.
func WithBeta(beta float64) Option {
	return func(c *config) {
		if beta >= 0 {
			c.beta = beta
		}
	}
}

// WithPeriodic selects the periodic form used for FFT framing instead of the
// symmetric form used for FIR design.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	den := length - 1
	if cfg.periodic {
		den = length
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, i, den, cfg)
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Kaiser returns symmetric Kaiser window coefficients.
func Kaiser(size int, beta float64) ([]float64, error) {
	if err := validateKaiser(size, beta); err != nil {
		return nil, err
	}

	return Generate(TypeKaiser, size, WithBeta(beta)), nil
}

// CoherentGain returns the mean of the coefficients, the amplitude scale a
// windowed sinusoid sees at its bin centre.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, v := range coeffs {
		sum += v
	}

	return sum / float64(len(coeffs)), nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum, sumSq := 0.0, 0.0
	for _, v := range coeffs {
		sum += v
		sumSq += v * v
	}

	if sum == 0 {
		return 0, errZeroCoherentGain
	}

	return float64(len(coeffs)) * sumSq / (sum * sum), nil
}

func evalWindow(t Type, n, den int, cfg config) float64 {
	if den <= 0 {
		return 1
	}

	switch t {
	case TypeHann:
		return cosineFromCoeffs(float64(n)/float64(den), hannCoeffs)
	case TypeBlackmanHarris:
		return cosineFromCoeffs(float64(n)/float64(den), blackmanHarrisCoeffs)
	case TypeKaiser:
		// |2n-den|/den keeps mirrored taps bit-identical.
		r := float64(absInt(2*n-den)) / float64(den)
		return kaiserAt(r, cfg.beta)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func kaiserAt(r, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	term := math.Sqrt(math.Max(0, 1-r*r))

	return besselI0(beta*term) / besselI0(beta)
}

// besselI0 evaluates the modified Bessel function of the first kind, order 0,
// by its power series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
