package oscillator

import (
	"math"

	"github.com/maximiliankc/mxcs-engine/pkg/dsp/interpolation"
)

// tableSize is the number of entries covering a single quadrant. A power
// of two; 1024 keeps peak spectral leakage below -66 dB with linear
// interpolation.
const tableSize = 1024

// sineTable holds one quadrant of a sine cycle with the endpoint repeated
// so interpolation never wraps.
var sineTable [tableSize + 1]float32

func init() {
	for i := range sineTable {
		sineTable[i] = float32(math.Sin(math.Pi / 2.0 * float64(i) / tableSize))
	}
}

// lookupSin evaluates sin(2*pi*phase) for phase in [0, 1) by folding into
// the first quadrant.
func lookupSin(phase float64) float32 {
	x := phase * 4.0
	quadrant := int(x)
	t := x - float64(quadrant)
	if quadrant&1 != 0 {
		t = 1.0 - t
	}
	pos := t * tableSize
	idx := int(pos)
	frac := float32(pos - float64(idx))
	y := interpolation.Linear(sineTable[idx], sineTable[idx+1], frac)
	if quadrant&2 != 0 {
		return -y
	}
	return y
}

// TableOscillator is the lookup form: a fractional phase accumulator
// indexing a single-quadrant sine table.
type TableOscillator struct {
	freq  float64
	phase float64 // cycles, in [0, 1)
	inc   float64
}

// NewTable creates a lookup oscillator at phase zero.
func NewTable() *TableOscillator {
	return &TableOscillator{}
}

// SetFrequency sets the normalized frequency, preserving phase.
func (o *TableOscillator) SetFrequency(f float64) {
	o.freq = f
	o.inc = f
}

// Frequency returns the normalized frequency.
func (o *TableOscillator) Frequency() float64 {
	return o.freq
}

// Reset returns the phase accumulator to zero.
func (o *TableOscillator) Reset() {
	o.phase = 0
}

// Next returns the current cos/sin pair and advances the accumulator.
func (o *TableOscillator) Next() (float64, float64) {
	sin := lookupSin(o.phase)
	cosPhase := o.phase + 0.25
	if cosPhase >= 1.0 {
		cosPhase -= 1.0
	}
	cos := lookupSin(cosPhase)
	o.phase += o.inc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
	return float64(cos), float64(sin)
}

// Process fills the buffers - no allocations.
func (o *TableOscillator) Process(cosOut, sinOut []float32) {
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
}
