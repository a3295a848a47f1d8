package synth

import (
	"fmt"

	"github.com/maximiliankc/mxcs-engine/pkg/dsp"
)

// GeneratorKind selects the waveform a voice produces.
type GeneratorKind int

const (
	// GeneratorSine is a pure sinusoid.
	GeneratorSine GeneratorKind = iota
	// GeneratorBlit is the raw unipolar band-limited impulse train.
	GeneratorBlit
	// GeneratorBpBlit is the raw bipolar band-limited impulse train.
	GeneratorBpBlit
	// GeneratorSawtooth is an integrated unipolar impulse train.
	GeneratorSawtooth
	// GeneratorSquare is an integrated bipolar impulse train.
	GeneratorSquare
	// GeneratorTriangle is a twice-integrated bipolar impulse train.
	GeneratorTriangle
)

// OscillatorForm selects the sinusoid implementation used by sine voices.
// The modulator always uses the recurrence form.
type OscillatorForm int

const (
	// OscRecurrence rotates a complex phasor with periodic
	// renormalization.
	OscRecurrence OscillatorForm = iota
	// OscTable interpolates a single-quadrant sine table.
	OscTable
)

// FilterKind selects the per-voice filter topology.
type FilterKind int

const (
	// FilterNone bypasses the filter stage.
	FilterNone FilterKind = iota
	// FilterLowpass is an RBJ-style lowpass biquad.
	FilterLowpass
	// FilterHighpass is an RBJ-style highpass biquad.
	FilterHighpass
)

// EnvelopeConfig holds the ADSR stage durations in seconds and the
// sustain level in dB.
type EnvelopeConfig struct {
	Attack    float64
	Decay     float64
	SustainDB float64
	Release   float64
}

// ModulatorConfig holds the amplitude modulator settings.
type ModulatorConfig struct {
	Depth  float64 // 0..1
	FreqHz float64 // >= 0
}

// FilterConfig holds the per-voice filter settings.
type FilterConfig struct {
	Kind        FilterKind
	CutoffHz    float64
	ResonanceDB float64
}

// Config carries every construction parameter of the synth. All sizing
// happens at construction; the audio path never allocates.
type Config struct {
	SampleRate   float64
	BlockSize    int
	MaxPolyphony int
	Generator    GeneratorKind
	Oscillator   OscillatorForm
	Envelope     EnvelopeConfig
	Modulator    ModulatorConfig
	Filter       FilterConfig
}

// DefaultConfig returns a playable eight-voice sine patch at 48 kHz.
func DefaultConfig() Config {
	return Config{
		SampleRate:   dsp.SampleRate48k,
		BlockSize:    dsp.DefaultBlockSize,
		MaxPolyphony: 8,
		Generator:    GeneratorSine,
		Envelope: EnvelopeConfig{
			Attack:    0.01,
			Decay:     0.1,
			SustainDB: -10.0,
			Release:   0.3,
		},
	}
}

// Validate checks every parameter, reporting the first violation as a
// ConfigurationError naming the field.
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate %v must be positive", ErrConfiguration, c.SampleRate)
	}
	if c.BlockSize < dsp.MinBlockSize || c.BlockSize > dsp.MaxBlockSize {
		return fmt.Errorf("%w: block_size %d outside %d..%d", ErrConfiguration, c.BlockSize, dsp.MinBlockSize, dsp.MaxBlockSize)
	}
	if c.MaxPolyphony < 1 {
		return fmt.Errorf("%w: max_polyphony %d must be at least 1", ErrConfiguration, c.MaxPolyphony)
	}
	if c.Generator < GeneratorSine || c.Generator > GeneratorTriangle {
		return fmt.Errorf("%w: generator kind %d unknown", ErrConfiguration, c.Generator)
	}
	if c.Oscillator < OscRecurrence || c.Oscillator > OscTable {
		return fmt.Errorf("%w: oscillator form %d unknown", ErrConfiguration, c.Oscillator)
	}
	if c.Envelope.Attack < 0 {
		return fmt.Errorf("%w: envelope attack %v must not be negative", ErrConfiguration, c.Envelope.Attack)
	}
	if c.Envelope.Decay < 0 {
		return fmt.Errorf("%w: envelope decay %v must not be negative", ErrConfiguration, c.Envelope.Decay)
	}
	if c.Envelope.Release < 0 {
		return fmt.Errorf("%w: envelope release %v must not be negative", ErrConfiguration, c.Envelope.Release)
	}
	if s := c.Envelope.SustainDB; s < -dsp.DBFloor || s > 0 {
		return fmt.Errorf("%w: envelope sustain %v dB outside [%v, 0]", ErrConfiguration, s, -dsp.DBFloor)
	}
	if d := c.Modulator.Depth; d < 0 || d > 1 {
		return fmt.Errorf("%w: modulator depth %v outside [0, 1]", ErrConfiguration, d)
	}
	if c.Modulator.FreqHz < 0 {
		return fmt.Errorf("%w: modulator frequency %v must not be negative", ErrConfiguration, c.Modulator.FreqHz)
	}
	switch c.Filter.Kind {
	case FilterNone:
	case FilterLowpass, FilterHighpass:
		if fc := c.Filter.CutoffHz; fc <= 0 || fc >= c.SampleRate/2 {
			return fmt.Errorf("%w: filter cutoff %v Hz outside (0, %v)", ErrConfiguration, fc, c.SampleRate/2)
		}
	default:
		return fmt.Errorf("%w: filter kind %d unknown", ErrConfiguration, c.Filter.Kind)
	}
	return nil
}
