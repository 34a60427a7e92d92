package delay

import "fmt"

// Shift delays a signal by a fixed whole number of samples.
type Shift struct {
	buf []float64
	pos int
}

// NewShift returns a z^-n delay. n must be at least 1.
func NewShift(n int) (*Shift, error) {
	if n < 1 {
		return nil, fmt.Errorf("delay: shift length must be >= 1: %d", n)
	}

	return &Shift{buf: make([]float64, n)}, nil
}

// NewUnitDelay returns a one-sample delay.
func NewUnitDelay() *Shift {
	return &Shift{buf: make([]float64, 1)}
}

// Len returns the delay in samples.
func (s *Shift) Len() int { return len(s.buf) }

// Set pushes x into the delay.
func (s *Shift) Set(x float64) {
	s.buf[s.pos] = x

	s.pos++
	if s.pos == len(s.buf) {
		s.pos = 0
	}
}

// Get returns the value pushed Len() calls to Set ago, counting the most
// recent call as one.
func (s *Shift) Get() float64 {
	return s.buf[s.pos]
}

// Process returns x delayed by Len() samples.
func (s *Shift) Process(x float64) float64 {
	y := s.buf[s.pos]
	s.Set(x)

	return y
}

// Reset clears the delay.
func (s *Shift) Reset() {
	for i := range s.buf {
		s.buf[i] = 0
	}

	s.pos = 0
}
