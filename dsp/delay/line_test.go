package delay

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-rackdsp/dsp/interp"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// fillRamp fills a delay line with a linear ramp [0, 1, 2, ..., size-1].
func fillRamp(d *Line) {
	for i := range d.Len() {
		d.Write(float64(i))
	}
}

func TestNewLineValidation(t *testing.T) {
	if _, err := NewLine(minLineSize-1, interp.ModeLinear); err == nil {
		t.Fatal("expected error for short line")
	}

	if _, err := NewLine(16, interp.Mode(9)); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestReadWrite(t *testing.T) {
	d, err := NewLine(8, interp.ModeLinear)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 8 {
		d.Write(float64(i))
	}

	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}

	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}

	// delay=Len => oldest sample still held
	if got := d.Read(8); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := NewLine(4, interp.ModeLinear)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 10 {
		d.Write(float64(i))
	}

	// buffer holds [8, 9, 6, 7], writePos=2
	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}

	if got := d.Read(4); got != 6 {
		t.Fatalf("got %v want 6", got)
	}
}

func TestReset(t *testing.T) {
	d, err := NewLine(4, interp.ModeHermite)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	d.Reset()

	for i := 1; i <= 4; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after reset Read(%d): got %v want 0", i, got)
		}
	}
}

func TestReadFractionalRampIsExact(t *testing.T) {
	for _, mode := range []interp.Mode{interp.ModeLinear, interp.ModeHermite} {
		d, err := NewLine(32, mode)
		if err != nil {
			t.Fatal(err)
		}

		fillRamp(d)

		got := d.ReadFractional(5.5)
		want := float64(d.Len()) - 5.5

		if !approxEqual(got, want, 1e-10) {
			t.Fatalf("%s: got %v want %v", mode, got, want)
		}
	}
}

func TestReadFractionalClamps(t *testing.T) {
	d, err := NewLine(8, interp.ModeHermite)
	if err != nil {
		t.Fatal(err)
	}

	for i := range 8 {
		d.Write(float64(i + 1))
	}

	if got := d.ReadFractional(-1); got != d.Read(1) {
		t.Fatalf("negative delay: got %v want %v", got, d.Read(1))
	}

	if got := d.ReadFractional(100); got != d.Read(6) {
		t.Fatalf("long delay: got %v want %v", got, d.Read(6))
	}

	if got := d.ReadFractional(math.NaN()); got != d.Read(1) {
		t.Fatalf("NaN delay: got %v", got)
	}
}

func TestDCPreservation(t *testing.T) {
	for _, mode := range []interp.Mode{interp.ModeLinear, interp.ModeHermite} {
		d, err := NewLine(32, mode)
		if err != nil {
			t.Fatal(err)
		}

		for range d.Len() {
			d.Write(42.0)
		}

		if got := d.ReadFractional(5.3); !approxEqual(got, 42.0, 1e-9) {
			t.Fatalf("%s DC: got %v want 42", mode, got)
		}
	}
}

func TestSineQuality(t *testing.T) {
	const (
		freq = 0.02
		size = 256
	)

	modes := []struct {
		mode interp.Mode
		tol  float64
	}{
		{interp.ModeLinear, 0.01},
		{interp.ModeHermite, 1e-4},
	}

	for _, tc := range modes {
		d, err := NewLine(size, tc.mode)
		if err != nil {
			t.Fatal(err)
		}

		for i := range size {
			d.Write(math.Sin(2 * math.Pi * freq * float64(i)))
		}

		delay := 20.37
		// Read(k) returns the sample written at index size-k.
		want := math.Sin(2 * math.Pi * freq * (float64(size) - delay))
		got := d.ReadFractional(delay)

		if e := math.Abs(got - want); e > tc.tol {
			t.Fatalf("%s sine: got %v want %v (err=%e, tol=%e)", tc.mode, got, want, e, tc.tol)
		}
	}
}

func BenchmarkReadFractionalLinear(b *testing.B) {
	d, _ := NewLine(1024, interp.ModeLinear)
	fillRamp(d)

	for b.Loop() {
		d.ReadFractional(100.37)
	}
}

func BenchmarkReadFractionalHermite(b *testing.B) {
	d, _ := NewLine(1024, interp.ModeHermite)
	fillRamp(d)

	for b.Loop() {
		d.ReadFractional(100.37)
	}
}
