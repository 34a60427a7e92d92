package waveshaper

import "math"

// Kind selects the transfer curve of a Shaper.
type Kind int

const (
	// KindLinear passes the oversampled signal through unchanged.
	KindLinear Kind = iota
	// KindLockhart folds with the Lockhart diode network.
	KindLockhart
	// KindSerge folds with the Serge diode pair.
	KindSerge
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindLockhart:
		return "lockhart"
	case KindSerge:
		return "serge"
	default:
		return "unknown"
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= KindLinear && k <= KindSerge
}

// ParseKind maps a lower-case kind name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindLinear; k <= KindSerge; k++ {
		if k.String() == name {
			return k, true
		}
	}

	return KindLinear, false
}

const (
	// MaxStages is the longest supported fold cascade.
	MaxStages = 6

	// inputScale maps module voltages into the folder's operating range.
	inputScale = 0.2
)

// folder is the per-sub-sample transfer function of a Shaper. It satisfies
// resample.Computer.
type folder struct {
	kind   Kind
	stages [MaxStages]FoldStage
	n      int
	drive  float64
}

func newFolder(kind Kind, stages int) folder {
	f := folder{kind: kind, n: stages, drive: 1}

	for i := range f.stages {
		switch kind {
		case KindLockhart:
			f.stages[i] = NewLockhartStage()
		case KindSerge:
			f.stages[i] = NewSergeStage()
		}
	}

	return f
}

// Compute runs the fold cascade and the output saturator on one sub-sample.
func (f *folder) Compute(x float64) float64 {
	if f.kind == KindLinear {
		return x
	}

	v := x * inputScale
	for i := range f.n {
		v = f.stages[i].Compute(v)
	}

	return MaxOutputLevel * math.Tanh(v*f.drive)
}

func (f *folder) iterations() int {
	total := 0
	for i := range f.n {
		total += f.stages[i].Iterations()
	}

	return total
}

func (f *folder) reset() {
	for i := range f.n {
		f.stages[i].Reset()
	}
}
