package dspmath

import "math/rand/v2"

// Randomizer draws uniform values from a private PCG stream.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns a randomizer with a fixed seed.
func NewRandomizer(seed uint64) *Randomizer {
	return &Randomizer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NextFloat returns a uniform value in [start, stop).
func (r *Randomizer) NextFloat(start, stop float64) float64 {
	return start + r.rng.Float64()*(stop-start)
}

// Noise is a white noise source in [-1, 1).
type Noise struct {
	r *Randomizer
}

// NewNoise returns a seeded noise source.
func NewNoise(seed uint64) *Noise {
	return &Noise{r: NewRandomizer(seed)}
}

// Next returns the next noise sample.
func (n *Noise) Next() float64 {
	return n.r.NextFloat(-1, 1)
}
