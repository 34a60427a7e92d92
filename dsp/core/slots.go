package core

import (
	"math"
	"sync/atomic"
)

// ParamSlots publishes parameter values from a control goroutine to the
// audio goroutine without locks.
//
// Store may be called from any goroutine. ApplyTo must only be called from
// the goroutine that owns the System, typically once per audio block.
type ParamSlots struct {
	bits    []atomic.Uint64
	pending atomic.Bool
}

// NewParamSlots creates slots seeded with the current parameters of s.
func NewParamSlots(s *System) *ParamSlots {
	p := &ParamSlots{bits: make([]atomic.Uint64, len(s.param))}
	for i, v := range s.param {
		p.bits[i].Store(math.Float64bits(v))
	}

	return p
}

// Len returns the number of slots.
func (p *ParamSlots) Len() int { return len(p.bits) }

// Store publishes a new value for parameter id.
func (p *ParamSlots) Store(id Param, value float64) {
	p.bits[id].Store(math.Float64bits(value))
	p.pending.Store(true)
}

// Load returns the last published value for parameter id.
func (p *ParamSlots) Load(id Param) float64 {
	return math.Float64frombits(p.bits[id].Load())
}

// ApplyTo copies published values into s and invalidates at most once.
// It reports whether any parameter changed.
func (p *ParamSlots) ApplyTo(s *System) bool {
	if !p.pending.Swap(false) {
		return false
	}

	changed := false
	for i := range p.bits {
		if s.StoreParam(Param(i), p.Load(Param(i))) {
			changed = true
		}
	}

	if changed {
		s.Invalidate()
	}

	return changed
}
