package core

import "fmt"

// Port indexes an input or output slot of a System.
type Port int

// Param indexes a parameter slot of a System.
type Param int

// Layout declares the fixed number of inputs, outputs and parameters of a unit.
type Layout struct {
	Inputs  int
	Outputs int
	Params  int
}

func (l Layout) validate() error {
	if l.Inputs < 0 || l.Outputs < 0 || l.Params < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidLayout, l)
	}

	return nil
}

// Processor is implemented by concrete units built on top of System.
//
// Invalidate recomputes cached coefficients after a parameter or sample-rate
// change. Process advances the unit by exactly one sample.
type Processor interface {
	Invalidate()
	Process()
}

// System holds the ports, parameters and sample rate shared by all DSP units.
//
// Concrete units embed System and pass themselves as hooks so that parameter
// changes and SetInputAndProcess reach their Invalidate and Process methods.
// Slot counts are fixed at construction. Indices outside the declared layout
// panic; they are a caller contract violation, not a runtime condition.
//
// System is not safe for concurrent use. The host serializes parameter writes
// with the audio callback, or publishes them through ParamSlots.
type System struct {
	input  []float64
	output []float64
	param  []float64

	sampleRate float64
	hooks      Processor
}

// NewSystem allocates the slots declared by layout. hooks may be nil, in
// which case Invalidate and Process are no-ops.
func NewSystem(layout Layout, sampleRate float64, hooks Processor) (System, error) {
	if err := layout.validate(); err != nil {
		return System{}, err
	}

	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return System{}, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	return System{
		input:      make([]float64, layout.Inputs),
		output:     make([]float64, layout.Outputs),
		param:      make([]float64, layout.Params),
		sampleRate: sampleRate,
		hooks:      hooks,
	}, nil
}

// Layout returns the slot counts fixed at construction.
func (s *System) Layout() Layout {
	return Layout{Inputs: len(s.input), Outputs: len(s.output), Params: len(s.param)}
}

// SampleRate returns the current sample rate in Hz.
func (s *System) SampleRate() float64 { return s.sampleRate }

// UpdateSampleRate stores a new rate and unconditionally invalidates.
func (s *System) UpdateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	s.sampleRate = sampleRate
	s.Invalidate()

	return nil
}

// SetParam writes parameter id. Writing the stored value is a no-op;
// otherwise Invalidate runs before SetParam returns.
func (s *System) SetParam(id Param, value float64) {
	if s.StoreParam(id, value) {
		s.Invalidate()
	}
}

// StoreParam writes parameter id without triggering Invalidate and reports
// whether the stored value changed. Callers batching several writes invoke
// Invalidate once afterwards.
func (s *System) StoreParam(id Param, value float64) bool {
	if s.param[id] == value {
		return false
	}

	s.param[id] = value

	return true
}

// Param returns the current value of parameter id.
func (s *System) Param(id Param) float64 { return s.param[id] }

// Input returns the current value of input port id.
func (s *System) Input(id Port) float64 { return s.input[id] }

// SetInput writes input port id.
func (s *System) SetInput(id Port, value float64) { s.input[id] = value }

// SetInputAndProcess writes input port id and runs Process on the same call stack.
func (s *System) SetInputAndProcess(id Port, value float64) {
	s.input[id] = value
	s.Process()
}

// Output returns the current value of output port id.
func (s *System) Output(id Port) float64 { return s.output[id] }

// SetOutput writes output port id. Units call it from Process.
func (s *System) SetOutput(id Port, value float64) { s.output[id] = value }

// Invalidate dispatches to the unit's Invalidate hook.
func (s *System) Invalidate() {
	if s.hooks != nil {
		s.hooks.Invalidate()
	}
}

// Process dispatches to the unit's Process hook.
func (s *System) Process() {
	if s.hooks != nil {
		s.hooks.Process()
	}
}

// Params returns a copy of all parameter values.
func (s *System) Params() []float64 {
	out := make([]float64, len(s.param))
	copy(out, s.param)

	return out
}

// RestoreParams replaces all parameter values and invalidates once if any
// value changed. It is the restore half of an external snapshot collaborator.
func (s *System) RestoreParams(values []float64) error {
	if len(values) != len(s.param) {
		return fmt.Errorf("%w: got %d, want %d", ErrParamCount, len(values), len(s.param))
	}

	changed := false
	for i, v := range values {
		if s.StoreParam(Param(i), v) {
			changed = true
		}
	}

	if changed {
		s.Invalidate()
	}

	return nil
}
