// Package oscillator provides quadrature sinusoid generators.
//
// Both implementations emit a pair of streams cos(2*pi*f*n), sin(2*pi*f*n)
// with the phase carried across calls, so a caller can consume blocks of
// any size without discontinuities.
package oscillator

import "math"

// Quadrature is the common interface of the two oscillator forms.
type Quadrature interface {
	// SetFrequency sets the normalized frequency in cycles per sample.
	// The current phase is preserved.
	SetFrequency(f float64)
	// Frequency returns the configured normalized frequency.
	Frequency() float64
	// Next returns the current cos/sin pair and advances one sample.
	Next() (cos, sin float64)
	// Process fills both buffers - no allocations. Either buffer may be
	// nil if only one component is needed.
	Process(cosOut, sinOut []float32)
	// Reset returns the phase to zero.
	Reset()
}

// Oscillator is the recurrence form: a complex phasor rotated by
// e^(i*2*pi*f) every sample. The rotation slowly erodes the phasor
// magnitude, so the amplitude is corrected at every block boundary with a
// quadratic approximation of 1/sqrt(power) around 1.
type Oscillator struct {
	freq       float64
	rotC, rotS float64 // cos/sin of the per-sample rotation
	c, s       float64 // current phasor
}

// New creates a recurrence oscillator at phase zero.
func New() *Oscillator {
	o := &Oscillator{c: 1.0}
	o.SetFrequency(0)
	return o
}

// SetFrequency sets the normalized frequency, preserving phase.
func (o *Oscillator) SetFrequency(f float64) {
	o.freq = f
	w := 2.0 * math.Pi * f
	o.rotC = math.Cos(w)
	o.rotS = math.Sin(w)
}

// Frequency returns the normalized frequency.
func (o *Oscillator) Frequency() float64 {
	return o.freq
}

// Reset returns the phasor to 1+0i.
func (o *Oscillator) Reset() {
	o.c = 1.0
	o.s = 0.0
}

// Next returns the current cos/sin pair and rotates the phasor.
func (o *Oscillator) Next() (float64, float64) {
	c, s := o.c, o.s
	o.c = c*o.rotC - s*o.rotS
	o.s = c*o.rotS + s*o.rotC
	return c, s
}

// Renormalize pulls the phasor magnitude back towards 1. The correction is
// the series 1 - 0.5(p-1) + 0.375(p-1)^2 for 1/sqrt(p), accurate to well
// under the +-0.001 power tolerance when applied every block.
func (o *Oscillator) Renormalize() {
	p := o.c*o.c + o.s*o.s
	e := p - 1.0
	k := 1.0 - 0.5*e + 0.375*e*e
	o.c *= k
	o.s *= k
}

// Process fills the buffers and renormalizes at the block boundary.
func (o *Oscillator) Process(cosOut, sinOut []float32) {
	n := len(cosOut)
	if cosOut == nil {
		n = len(sinOut)
	}
	for i := 0; i < n; i++ {
		c, s := o.Next()
		if cosOut != nil {
			cosOut[i] = float32(c)
		}
		if sinOut != nil {
			sinOut[i] = float32(s)
		}
	}
	o.Renormalize()
}
