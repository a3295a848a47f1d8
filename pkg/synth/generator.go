package synth

import (
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/blit"
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/oscillator"
)

// Generator is a block producer: it renders one waveform at a normalized
// frequency into a caller-provided buffer, carrying phase across calls.
type Generator interface {
	SetFrequency(f float64)
	Process(out []float32)
	Reset()
}

// sineGenerator adapts a quadrature oscillator's sine output.
type sineGenerator struct {
	osc oscillator.Quadrature
}

func (g *sineGenerator) SetFrequency(f float64) {
	g.osc.SetFrequency(f)
}

func (g *sineGenerator) Process(out []float32) {
	g.osc.Process(nil, out)
}

func (g *sineGenerator) Reset() {
	g.osc.Reset()
}

// newGenerator builds the generator a voice uses, per the configured
// kind and oscillator form.
func newGenerator(cfg *Config) Generator {
	switch cfg.Generator {
	case GeneratorBlit:
		return blit.NewUnipolar()
	case GeneratorBpBlit:
		return blit.NewBipolar()
	case GeneratorSawtooth:
		return blit.NewSawtooth()
	case GeneratorSquare:
		return blit.NewSquare()
	case GeneratorTriangle:
		return blit.NewTriangle()
	default:
		if cfg.Oscillator == OscTable {
			return &sineGenerator{osc: oscillator.NewTable()}
		}
		return &sineGenerator{osc: oscillator.New()}
	}
}
