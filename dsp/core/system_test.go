package core

import (
	"errors"
	"math"
	"sync"
	"testing"
)

const (
	testIn Port = iota
)

const (
	testOut Port = iota
)

const (
	testGain Param = iota
	testBias
	testNumParams
)

// countingUnit doubles its input and counts hook invocations.
type countingUnit struct {
	System

	invalidations int
	processed     int
	gain          float64
}

func newCountingUnit(t *testing.T) *countingUnit {
	t.Helper()

	u := &countingUnit{}

	sys, err := NewSystem(Layout{Inputs: 1, Outputs: 1, Params: int(testNumParams)}, 44100, u)
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}

	u.System = sys

	return u
}

func (u *countingUnit) Invalidate() {
	u.invalidations++
	u.gain = u.Param(testGain)
}

func (u *countingUnit) Process() {
	u.processed++
	u.SetOutput(testOut, u.Input(testIn)*u.gain+u.Param(testBias))
}

func TestNewSystemValidation(t *testing.T) {
	if _, err := NewSystem(Layout{Inputs: -1}, 44100, nil); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("err = %v, want ErrInvalidLayout", err)
	}

	for _, sr := range []float64{0, -48000, math.NaN(), math.Inf(1)} {
		if _, err := NewSystem(Layout{}, sr, nil); !errors.Is(err, ErrInvalidSampleRate) {
			t.Fatalf("sr=%v: err = %v, want ErrInvalidSampleRate", sr, err)
		}
	}
}

func TestLayoutFixed(t *testing.T) {
	u := newCountingUnit(t)

	got := u.Layout()
	want := Layout{Inputs: 1, Outputs: 1, Params: 2}

	if got != want {
		t.Fatalf("Layout() = %+v, want %+v", got, want)
	}
}

func TestSetParamChangeDetection(t *testing.T) {
	u := newCountingUnit(t)

	u.SetParam(testGain, 2)
	if u.invalidations != 1 {
		t.Fatalf("invalidations = %d, want 1", u.invalidations)
	}

	u.SetParam(testGain, 2)
	if u.invalidations != 1 {
		t.Fatalf("equal write invalidated: %d", u.invalidations)
	}

	if changed := u.StoreParam(testGain, 3); !changed {
		t.Fatal("StoreParam() reported no change")
	}

	if u.invalidations != 1 {
		t.Fatalf("StoreParam invalidated: %d", u.invalidations)
	}

	if got := u.Param(testGain); got != 3 {
		t.Fatalf("Param() = %v, want 3", got)
	}
}

func TestSetInputAndProcess(t *testing.T) {
	u := newCountingUnit(t)
	u.SetParam(testGain, 2)

	u.SetInput(testIn, 1.5)
	if u.processed != 0 {
		t.Fatal("SetInput must not process")
	}

	u.SetInputAndProcess(testIn, 1.5)
	if u.processed != 1 {
		t.Fatalf("processed = %d, want 1", u.processed)
	}

	if got := u.Output(testOut); got != 3 {
		t.Fatalf("Output() = %v, want 3", got)
	}
}

func TestUpdateSampleRateInvalidates(t *testing.T) {
	u := newCountingUnit(t)

	if err := u.UpdateSampleRate(44100); err != nil {
		t.Fatalf("UpdateSampleRate() error = %v", err)
	}

	if u.invalidations != 1 {
		t.Fatalf("same rate must still invalidate, got %d", u.invalidations)
	}

	if err := u.UpdateSampleRate(96000); err != nil {
		t.Fatalf("UpdateSampleRate() error = %v", err)
	}

	if u.SampleRate() != 96000 {
		t.Fatalf("SampleRate() = %v, want 96000", u.SampleRate())
	}

	if err := u.UpdateSampleRate(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	if u.SampleRate() != 96000 {
		t.Fatal("rejected rate must not be stored")
	}
}

func TestNilHooksAreNoOps(t *testing.T) {
	s, err := NewSystem(Layout{Inputs: 1, Params: 1}, 48000, nil)
	if err != nil {
		t.Fatalf("NewSystem() error = %v", err)
	}

	s.SetParam(0, 1)
	s.SetInputAndProcess(0, 1)
}

func TestRestoreParams(t *testing.T) {
	u := newCountingUnit(t)
	u.SetParam(testGain, 4)
	u.SetParam(testBias, -1)

	snapshot := u.Params()

	other := newCountingUnit(t)
	if err := other.RestoreParams(snapshot); err != nil {
		t.Fatalf("RestoreParams() error = %v", err)
	}

	if other.invalidations != 1 {
		t.Fatalf("invalidations = %d, want 1", other.invalidations)
	}

	if other.gain != 4 || other.Param(testBias) != -1 {
		t.Fatalf("restored gain=%v bias=%v", other.gain, other.Param(testBias))
	}

	if err := other.RestoreParams(snapshot); err != nil {
		t.Fatalf("RestoreParams() error = %v", err)
	}

	if other.invalidations != 1 {
		t.Fatal("identical restore must not invalidate")
	}

	if err := other.RestoreParams([]float64{1}); !errors.Is(err, ErrParamCount) {
		t.Fatalf("err = %v, want ErrParamCount", err)
	}
}

func TestParamSlotsApply(t *testing.T) {
	u := newCountingUnit(t)
	slots := NewParamSlots(&u.System)

	if slots.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", slots.Len())
	}

	if slots.ApplyTo(&u.System) {
		t.Fatal("apply without stores must report no change")
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		slots.Store(testGain, 0.5)
		slots.Store(testBias, 0.25)
	}()

	wg.Wait()

	if !slots.ApplyTo(&u.System) {
		t.Fatal("expected change")
	}

	if u.invalidations != 1 {
		t.Fatalf("invalidations = %d, want 1", u.invalidations)
	}

	if u.Param(testGain) != 0.5 || u.Param(testBias) != 0.25 {
		t.Fatalf("params = %v", u.Params())
	}

	slots.Store(testGain, 0.5)

	if slots.ApplyTo(&u.System) {
		t.Fatal("re-publishing the same value must not change the system")
	}
}
