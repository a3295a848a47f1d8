// Package modulation provides the low-frequency amplitude modulator.
package modulation

import (
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/oscillator"
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/utility"
)

// Modulator produces the scaling signal
//
//	m[n] = (1 - depth) + depth * cos(2*pi*f*n)
//
// which ranges over [1-2*depth, 1]; it is non-negative only for depth up
// to 0.5. With depth 0 or frequency 0 the output is the constant 1.
type Modulator struct {
	osc   *oscillator.Oscillator
	depth float64
}

// New creates a unity modulator.
func New() *Modulator {
	return &Modulator{osc: oscillator.New()}
}

// SetDepth sets the modulation depth, clamped to [0, 1].
func (m *Modulator) SetDepth(depth float64) {
	m.depth = utility.Clamp(depth, 0.0, 1.0)
}

// Depth returns the modulation depth.
func (m *Modulator) Depth() float64 {
	return m.depth
}

// SetFrequency sets the modulation rate in cycles per sample.
func (m *Modulator) SetFrequency(f float64) {
	m.osc.SetFrequency(f)
}

// Reset returns the modulator to phase zero.
func (m *Modulator) Reset() {
	m.osc.Reset()
}

// Next returns the next scaling sample.
func (m *Modulator) Next() float64 {
	c, _ := m.osc.Next()
	return (1.0 - m.depth) + m.depth*c
}

// Process fills buffer with scaling samples - no allocations.
func (m *Modulator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(m.Next())
	}
	m.osc.Renormalize()
}

// ProcessMultiply multiplies buffer by the modulator - no allocations.
func (m *Modulator) ProcessMultiply(buffer []float32) {
	for i := range buffer {
		buffer[i] *= float32(m.Next())
	}
	m.osc.Renormalize()
}
