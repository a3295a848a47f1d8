// Package filter provides IIR filters: a fast biquad with RBJ-style
// lowpass/highpass designs, the four canonical direct-form topologies for
// general order-N filters, and the leaky integrator used for waveform
// derivation.
package filter

import (
	"math"

	"github.com/maximiliankc/mxcs-engine/pkg/dsp/utility"
)

// Biquad implements a second-order IIR section in transposed direct form
// II. Coefficients are normalized by a0 when set.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	s1, s2     float64
}

// NewBiquad creates a biquad configured as a pass-through.
func NewBiquad() *Biquad {
	return &Biquad{b0: 1.0}
}

// Reset clears the filter state.
func (b *Biquad) Reset() {
	b.s1 = 0
	b.s2 = 0
}

// SetCoefficients sets the coefficients directly, normalizing by a0.
func (b *Biquad) SetCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	inv := 1.0 / a0
	b.b0 = b0 * inv
	b.b1 = b1 * inv
	b.b2 = b2 * inv
	b.a1 = a1 * inv
	b.a2 = a2 * inv
}

// SetLowpass configures an RBJ-style lowpass. The resonance is given in
// dB: the response peaks at the cutoff with approximately that gain.
func (b *Biquad) SetLowpass(sampleRate, cutoffHz, resonanceDB float64) {
	omega := 2.0 * math.Pi * cutoffHz / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	q := utility.DB2Mag(resonanceDB)
	alpha := sinOmega / (2.0 * q)

	b.SetCoefficients(
		(1.0-cosOmega)/2.0, 1.0-cosOmega, (1.0-cosOmega)/2.0,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

// SetHighpass configures an RBJ-style highpass, symmetric to SetLowpass.
func (b *Biquad) SetHighpass(sampleRate, cutoffHz, resonanceDB float64) {
	omega := 2.0 * math.Pi * cutoffHz / sampleRate
	sinOmega := math.Sin(omega)
	cosOmega := math.Cos(omega)
	q := utility.DB2Mag(resonanceDB)
	alpha := sinOmega / (2.0 * q)

	b.SetCoefficients(
		(1.0+cosOmega)/2.0, -(1.0 + cosOmega), (1.0+cosOmega)/2.0,
		1.0+alpha, -2.0*cosOmega, 1.0-alpha)
}

// Next filters one sample.
func (b *Biquad) Next(x float64) float64 {
	y := b.b0*x + b.s1
	b.s1 = b.b1*x - b.a1*y + b.s2
	b.s2 = b.b2*x - b.a2*y
	return y
}

// Process filters a buffer in place - no allocations.
func (b *Biquad) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(b.Next(float64(buffer[i])))
	}
}
