package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-rackdsp/dsp/interp"
)

// minLineSize leaves room for a four-point read.
const minLineSize = 4

// Line is a circular delay line.
//
// Read(1) returns the most recently written sample and Read(Len()) the
// oldest one still held.
type Line struct {
	buffer   []float64
	writePos int
	mode     interp.Mode
}

// NewLine returns a delay line holding size samples.
func NewLine(size int, mode interp.Mode) (*Line, error) {
	if size < minLineSize {
		return nil, fmt.Errorf("delay: line size must be >= %d: %d", minLineSize, size)
	}

	if !mode.Valid() {
		return nil, fmt.Errorf("delay: invalid interpolation mode: %d", mode)
	}

	return &Line{buffer: make([]float64, size), mode: mode}, nil
}

// Len returns the internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Mode returns the fractional read mode.
func (d *Line) Mode() interp.Mode { return d.mode }

// MaxDelay returns the largest fractional delay ReadFractional honours.
func (d *Line) MaxDelay() float64 {
	if d.mode == interp.ModeHermite {
		return float64(len(d.buffer) - 2)
	}

	return float64(len(d.buffer) - 1)
}

// Write writes one sample and advances the write cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample

	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay%size + size) % size

	return d.buffer[readPos]
}

// ReadFractional reads a delay in samples, clamped to [1, MaxDelay()].
func (d *Line) ReadFractional(delay float64) float64 {
	delay = clampDelay(delay, d.MaxDelay())

	p := int(math.Floor(delay))

	return d.readSplit(p, delay-float64(p))
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}

	d.writePos = 0
}

// readSplit reads integer delay p plus fraction t in [0, 1).
func (d *Line) readSplit(p int, t float64) float64 {
	x0 := d.Read(p)
	if t == 0 {
		return x0
	}

	x1 := d.Read(p + 1)
	if d.mode == interp.ModeLinear {
		return interp.Linear(t, x0, x1)
	}

	xm1 := d.Read(max(1, p-1))
	x2 := d.Read(p + 2)

	return interp.Hermite4(t, xm1, x0, x1, x2)
}

func clampDelay(delay, maxDelay float64) float64 {
	switch {
	case math.IsNaN(delay) || delay < 1:
		return 1
	case delay > maxDelay:
		return maxDelay
	default:
		return delay
	}
}
