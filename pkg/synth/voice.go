package synth

import (
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/envelope"
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/filter"
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/modulation"
)

// Voice is one monophonic synthesis chain:
//
//	s[n] = filter( gen(n) * env(n) * mod(n) )
//
// A voice is active from the press that allocates it until its envelope
// returns to the floor. All state is owned exclusively by the voice.
type Voice struct {
	gen  Generator
	env  *envelope.ADSR
	mod  *modulation.Modulator
	filt *filter.Biquad // nil when the filter stage is bypassed

	note     int
	active   bool
	released bool
	startAt  uint64 // stream index of the allocating press
	releaseAt uint64
}

// newVoice builds a voice from the synth configuration.
func newVoice(cfg *Config) *Voice {
	v := &Voice{
		gen: newGenerator(cfg),
		env: envelope.New(cfg.SampleRate),
		mod: modulation.New(),
	}
	v.env.Set(cfg.Envelope.Attack, cfg.Envelope.Decay, cfg.Envelope.SustainDB, cfg.Envelope.Release)
	v.mod.SetDepth(cfg.Modulator.Depth)
	v.mod.SetFrequency(cfg.Modulator.FreqHz / cfg.SampleRate)

	switch cfg.Filter.Kind {
	case FilterLowpass:
		v.filt = filter.NewBiquad()
		v.filt.SetLowpass(cfg.SampleRate, cfg.Filter.CutoffHz, cfg.Filter.ResonanceDB)
	case FilterHighpass:
		v.filt = filter.NewBiquad()
		v.filt.SetHighpass(cfg.SampleRate, cfg.Filter.CutoffHz, cfg.Filter.ResonanceDB)
	}
	return v
}

// Active reports whether the voice is producing sound.
func (v *Voice) Active() bool {
	return v.active
}

// Note returns the MIDI note the voice is playing.
func (v *Voice) Note() int {
	return v.note
}

// trigger (re)starts the voice on a note. The envelope attacks from its
// current level, so re-pressing an already sounding voice is audible as
// a rise rather than a restart.
func (v *Voice) trigger(note int, freq float64, at uint64) {
	v.note = note
	v.active = true
	v.released = false
	v.startAt = at
	v.gen.SetFrequency(freq)
	v.env.Trigger()
}

// release starts the envelope release stage.
func (v *Voice) release(at uint64) {
	v.released = true
	v.releaseAt = at
	v.env.Release()
}

// process renders one block into out (overwriting it) and retires the
// voice once the envelope reaches the floor.
func (v *Voice) process(out []float32) {
	v.gen.Process(out)
	v.env.ProcessMultiply(out)
	v.mod.ProcessMultiply(out)
	if v.filt != nil {
		v.filt.Process(out)
	}
	if !v.env.IsActive() {
		v.active = false
	}
}
