// Package blit provides band-limited impulse trains and the classic
// waveforms derived from them by leaky integration.
//
// The impulse trains are closed-form periodic sinc (Dirichlet kernel)
// evaluations, y[n] = sin(pi*m*f*n) / (m * sin(pi*f*n)), produced from a
// pair of quadrature recurrences rather than by evaluating sin/cos of a
// growing argument. The harmonic count m is chosen so the highest
// harmonic stays below 0.4 times the sample rate.
package blit

import (
	"math"

	"github.com/maximiliankc/mxcs-engine/pkg/dsp"
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/oscillator"
)

// UnipolarHarmonics returns the (odd) harmonic count for a unipolar
// impulse train at normalized frequency f.
func UnipolarHarmonics(f float64) int {
	if f <= 0 {
		return 1
	}
	return 2*int(dsp.HarmonicGuard/f) + 1
}

// BipolarHarmonics returns the (even) harmonic count for a bipolar
// impulse train at normalized frequency f. The train is driven at 2f, and
// at least one harmonic pair is always kept so the kernel stays defined
// at the very top of the range.
func BipolarHarmonics(f float64) int {
	if f <= 0 {
		return 2
	}
	m := 2 * int(dsp.HarmonicGuard/(2.0*f))
	if m < 2 {
		m = 2
	}
	return m
}

// msinc evaluates the periodic sinc sample by sample. base tracks
// cos/sin(pi*f*n) and multi tracks cos/sin(pi*m*f*n); both run at half
// the corresponding normalized frequency since the oscillator's step is
// 2*pi per cycle.
type msinc struct {
	base  *oscillator.Oscillator
	multi *oscillator.Oscillator
	m     float64
}

func newMsinc() msinc {
	return msinc{
		base:  oscillator.New(),
		multi: oscillator.New(),
	}
}

func (c *msinc) configure(f float64, m int) {
	c.m = float64(m)
	c.base.SetFrequency(f / 2.0)
	c.multi.SetFrequency(float64(m) * f / 2.0)
}

func (c *msinc) next() float64 {
	cb, sb := c.base.Next()
	cm, sm := c.multi.Next()
	if math.Abs(sb) < dsp.MsincThreshold/c.m {
		// At zero crossings of the denominator the kernel approaches
		// cos(pi*m*f*n)/cos(pi*f*n); both forms agree there and the
		// cosine form is numerically stable.
		return cm / cb
	}
	return sm / (c.m * sb)
}

func (c *msinc) renormalize() {
	c.base.Renormalize()
	c.multi.Renormalize()
}

func (c *msinc) reset() {
	c.base.Reset()
	c.multi.Reset()
}

// Unipolar is a band-limited impulse train: a DC-biased pulse train whose
// spectrum is a flat comb of m harmonics at multiples of f.
type Unipolar struct {
	freq float64
	core msinc
}

// NewUnipolar creates an impulse train generator.
func NewUnipolar() *Unipolar {
	return &Unipolar{core: newMsinc()}
}

// SetFrequency sets the fundamental in cycles per sample.
func (u *Unipolar) SetFrequency(f float64) {
	u.freq = f
	u.core.configure(f, UnipolarHarmonics(f))
}

// Frequency returns the fundamental in cycles per sample.
func (u *Unipolar) Frequency() float64 {
	return u.freq
}

// Harmonics returns the harmonic count in use.
func (u *Unipolar) Harmonics() int {
	return int(u.core.m)
}

// Reset returns the generator to phase zero.
func (u *Unipolar) Reset() {
	u.core.reset()
}

// Process fills buffer with impulse train samples - no allocations.
func (u *Unipolar) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(u.core.next())
	}
	u.core.renormalize()
}

// Bipolar is an impulse train whose pulses alternate in sign with period
// 1/f. It is a unipolar train driven at twice the fundamental with an
// even harmonic count.
type Bipolar struct {
	freq float64
	core msinc
}

// NewBipolar creates a bipolar impulse train generator.
func NewBipolar() *Bipolar {
	return &Bipolar{core: newMsinc()}
}

// SetFrequency sets the fundamental in cycles per sample.
func (b *Bipolar) SetFrequency(f float64) {
	b.freq = f
	b.core.configure(2.0*f, BipolarHarmonics(f))
}

// Frequency returns the fundamental in cycles per sample.
func (b *Bipolar) Frequency() float64 {
	return b.freq
}

// Harmonics returns the harmonic count in use.
func (b *Bipolar) Harmonics() int {
	return int(b.core.m)
}

// Reset returns the generator to phase zero.
func (b *Bipolar) Reset() {
	b.core.reset()
}

// Process fills buffer with impulse train samples - no allocations.
func (b *Bipolar) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(b.core.next())
	}
	b.core.renormalize()
}
