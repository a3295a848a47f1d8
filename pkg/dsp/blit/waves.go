package blit

import (
	"github.com/maximiliankc/mxcs-engine/pkg/dsp"
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/filter"
)

// The integrator input gains below normalize each wave's peak amplitude
// to approximately +-1 across the usable frequency range.

// Sawtooth derives a band-limited sawtooth by integrating twice the
// unipolar impulse train; the integrator's DC zero removes the train's
// bias.
type Sawtooth struct {
	src   *Unipolar
	integ *filter.LeakyIntegrator
}

// NewSawtooth creates a sawtooth generator.
func NewSawtooth() *Sawtooth {
	return &Sawtooth{
		src:   NewUnipolar(),
		integ: filter.NewLeakyIntegrator(dsp.DefaultIntegratorLeak),
	}
}

// SetFrequency sets the fundamental in cycles per sample.
func (s *Sawtooth) SetFrequency(f float64) {
	s.src.SetFrequency(f)
}

// Reset returns the generator to phase zero and clears the integrator.
func (s *Sawtooth) Reset() {
	s.src.Reset()
	s.integ.Reset()
}

// Process fills buffer with sawtooth samples - no allocations.
func (s *Sawtooth) Process(buffer []float32) {
	s.src.Process(buffer)
	for i := range buffer {
		buffer[i] = float32(s.integ.Next(2.0 * float64(buffer[i])))
	}
}

// Square derives a band-limited square wave by integrating twice the
// bipolar impulse train.
type Square struct {
	src   *Bipolar
	integ *filter.LeakyIntegrator
}

// NewSquare creates a square wave generator.
func NewSquare() *Square {
	return &Square{
		src:   NewBipolar(),
		integ: filter.NewLeakyIntegrator(dsp.DefaultIntegratorLeak),
	}
}

// SetFrequency sets the fundamental in cycles per sample.
func (s *Square) SetFrequency(f float64) {
	s.src.SetFrequency(f)
}

// Reset returns the generator to phase zero and clears the integrator.
func (s *Square) Reset() {
	s.src.Reset()
	s.integ.Reset()
}

// Process fills buffer with square wave samples - no allocations.
func (s *Square) Process(buffer []float32) {
	s.src.Process(buffer)
	for i := range buffer {
		buffer[i] = float32(s.integ.Next(2.0 * float64(buffer[i])))
	}
}

// Triangle derives a band-limited triangle wave by integrating the square
// wave scaled by 4f.
type Triangle struct {
	src   *Square
	freq  float64
	integ *filter.LeakyIntegrator
}

// NewTriangle creates a triangle wave generator.
func NewTriangle() *Triangle {
	return &Triangle{
		src:   NewSquare(),
		integ: filter.NewLeakyIntegrator(dsp.DefaultIntegratorLeak),
	}
}

// SetFrequency sets the fundamental in cycles per sample.
func (t *Triangle) SetFrequency(f float64) {
	t.freq = f
	t.src.SetFrequency(f)
}

// Reset returns the generator to phase zero and clears the integrators.
func (t *Triangle) Reset() {
	t.src.Reset()
	t.integ.Reset()
}

// Process fills buffer with triangle wave samples - no allocations.
func (t *Triangle) Process(buffer []float32) {
	t.src.Process(buffer)
	gain := 4.0 * t.freq
	for i := range buffer {
		buffer[i] = float32(t.integ.Next(gain * float64(buffer[i])))
	}
}
