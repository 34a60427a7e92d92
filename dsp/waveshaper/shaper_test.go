package waveshaper

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rackdsp/dsp/core"
	"github.com/cwbudde/algo-rackdsp/internal/testutil"
)

func sumAbs(h []float64) float64 {
	s := 0.0
	for _, v := range h {
		s += math.Abs(v)
	}

	return s
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Kind(42), 44100); err == nil {
		t.Fatal("expected error for invalid kind")
	}

	if _, err := New(KindLockhart, 0); !errors.Is(err, core.ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}

	for _, opt := range []Option{WithStages(0), WithStages(MaxStages + 1), WithOversampling(0)} {
		if _, err := New(KindSerge, 44100, opt); err == nil {
			t.Fatal("expected option error")
		}
	}
}

func TestDefaults(t *testing.T) {
	s, err := NewLockhart(44100)
	if err != nil {
		t.Fatalf("NewLockhart() error = %v", err)
	}

	if s.Kind() != KindLockhart || s.Stages() != defaultStages {
		t.Fatalf("kind=%v stages=%d", s.Kind(), s.Stages())
	}

	if s.Gain() != 1 || s.Bias() != 0 || s.K() != 0 || !s.BlockDC() {
		t.Fatalf("unexpected defaults gain=%v bias=%v k=%v blockDC=%v", s.Gain(), s.Bias(), s.K(), s.BlockDC())
	}

	if got := s.OversampledRate(); got != 44100*8 {
		t.Fatalf("OversampledRate() = %v, want %v", got, 44100*8)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindLinear, KindLockhart, KindSerge} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}

	if _, ok := ParseKind("buchla"); ok {
		t.Fatal("ParseKind accepted unknown name")
	}
}

func TestLinearGainBiasAmplitude(t *testing.T) {
	s, err := New(KindLinear, 48000, WithOversampling(1), WithBlockDC(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, x := range []float64{0.5, -2, 3.25} {
		if got := s.ProcessSample(x); got != x {
			t.Fatalf("ProcessSample(%v) = %v", x, got)
		}
	}

	s.SetGain(2)
	s.SetBias(1)
	s.SetAmplitude(0.5, -0.5)

	kpos, kneg := s.Amplitude()
	if kpos != 0.5 || kneg != -0.5 {
		t.Fatalf("Amplitude() = %v, %v", kpos, kneg)
	}

	// (1·2+1)·1.5
	if got := s.ProcessSample(1); got != 4.5 {
		t.Fatalf("positive branch = %v, want 4.5", got)
	}

	// (-2·2+1)·0.5
	if got := s.ProcessSample(-2); got != -1.5 {
		t.Fatalf("negative branch = %v, want -1.5", got)
	}
}

func TestGainAndBiasAreClamped(t *testing.T) {
	s, err := New(KindLinear, 48000, WithOversampling(1), WithBlockDC(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.SetGain(1000)
	s.SetBias(-100)

	if got, want := s.ProcessSample(1), MaxGain-MaxBiasLevel; got != want {
		t.Fatalf("ProcessSample(1) = %v, want %v", got, want)
	}

	if s.Gain() != 1000 {
		t.Fatalf("Gain() = %v, want stored value 1000", s.Gain())
	}
}

func TestFoldersStayBounded(t *testing.T) {
	const sr = 44100.0

	for _, kind := range []Kind{KindLockhart, KindSerge} {
		for _, blockDC := range []bool{false, true} {
			s, err := New(kind, sr, WithBlockDC(blockDC))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			limit := MaxOutputLevel*sumAbs(s.Coefficients()) + 1e-9
			if blockDC {
				limit *= 3
			}

			for _, gain := range []float64{0.25, 1, 5, 20} {
				for _, bias := range []float64{-MaxBiasLevel, 0, MaxBiasLevel} {
					for _, amp := range []float64{0.5, MaxInputLevel} {
						s.SetGain(gain)
						s.SetBias(bias)
						s.Reset()

						in := testutil.DeterministicSine(440, sr, amp, 1024)
						s.ProcessInPlace(in)

						for i, y := range in {
							if math.IsNaN(y) || math.Abs(y) > limit {
								t.Fatalf("%s dc=%v gain=%v bias=%v amp=%v: out[%d] = %v exceeds %v",
									kind, blockDC, gain, bias, amp, i, y, limit)
							}
						}
					}
				}
			}
		}
	}
}

func TestFoldersBoundedForNoise(t *testing.T) {
	for _, kind := range []Kind{KindLockhart, KindSerge} {
		s, err := New(kind, 48000, WithStages(4), WithBlockDC(false))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		s.SetGain(MaxGain)
		s.SetK(MaxK)
		s.SetAmplitude(MaxAmplitude, MaxAmplitude)

		limit := MaxOutputLevel*sumAbs(s.Coefficients()) + 1e-9

		in := testutil.DeterministicNoise(7, MaxInputLevel, 2048)
		out := make([]float64, len(in))
		s.ProcessTo(out, in)

		testutil.RequireFinite(t, out)

		for i, y := range out {
			if math.Abs(y) > limit {
				t.Fatalf("%s: out[%d] = %v exceeds %v", kind, i, y, limit)
			}
		}
	}
}

func TestBlockDCRemovesBiasOffset(t *testing.T) {
	s, err := NewLockhart(44100, WithBlockDC(false))
	if err != nil {
		t.Fatalf("NewLockhart() error = %v", err)
	}

	s.SetBias(3)

	var y float64
	for range 2000 {
		y = s.ProcessSample(0)
	}

	if math.Abs(y) < 1e-3 {
		t.Fatalf("expected folded offset without DC blocker, got %v", y)
	}

	s.SetBlockDC(true)

	for range 20000 {
		y = s.ProcessSample(0)
	}

	if math.Abs(y) > 1e-6 {
		t.Fatalf("DC blocker left offset %v", y)
	}
}

func TestInitMutes(t *testing.T) {
	s, err := NewSerge(44100)
	if err != nil {
		t.Fatalf("NewSerge() error = %v", err)
	}

	s.SetGain(4)
	s.SetK(2)
	s.SetBias(1)
	s.ProcessSample(3)

	s.Init()

	if s.Gain() != 0 || s.Bias() != 0 || s.K() != 0 || s.Out() != 0 {
		t.Fatalf("Init left gain=%v bias=%v k=%v out=%v", s.Gain(), s.Bias(), s.K(), s.Out())
	}

	if kpos, kneg := s.Amplitude(); kpos != 0 || kneg != 0 {
		t.Fatalf("Init left amplitude %v, %v", kpos, kneg)
	}

	for range 16 {
		if y := s.ProcessSample(3); math.Abs(y) > 1e-6 {
			t.Fatalf("muted output = %v", y)
		}
	}
}

func TestUpdateSampleRate(t *testing.T) {
	s, err := NewLockhart(48000)
	if err != nil {
		t.Fatalf("NewLockhart() error = %v", err)
	}

	if err := s.UpdateSampleRate(96000); err != nil {
		t.Fatalf("UpdateSampleRate() error = %v", err)
	}

	if got := s.OversampledRate(); got != 96000*8 {
		t.Fatalf("OversampledRate() = %v", got)
	}

	in := testutil.DeterministicSine(1000, 96000, 5, 256)
	s.ProcessInPlace(in)
	testutil.RequireFinite(t, in)
}

func TestParamSlotsDriveShaper(t *testing.T) {
	s, err := New(KindLinear, 48000, WithOversampling(1), WithBlockDC(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	slots := core.NewParamSlots(&s.System)
	slots.Store(ParamGain, 3)
	slots.Store(ParamBias, 0.5)

	if !slots.ApplyTo(&s.System) {
		t.Fatal("ApplyTo reported no change")
	}

	if got := s.ProcessSample(1); got != 3.5 {
		t.Fatalf("ProcessSample(1) = %v, want 3.5", got)
	}
}

func TestProcessSampleDoesNotAllocate(t *testing.T) {
	s, err := NewSerge(44100, WithStages(2))
	if err != nil {
		t.Fatalf("NewSerge() error = %v", err)
	}

	x := 0.0
	allocs := testing.AllocsPerRun(200, func() {
		x += 0.01
		s.ProcessSample(5 * math.Sin(x))
	})

	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}

func BenchmarkLockhart8x(b *testing.B) {
	s, err := NewLockhart(48000)
	if err != nil {
		b.Fatal(err)
	}

	s.SetGain(4)

	in := testutil.DeterministicSine(220, 48000, 5, 512)

	b.ReportAllocs()
	b.SetBytes(int64(len(in) * 8))

	for b.Loop() {
		s.ProcessInPlace(in)
	}
}
