package synth

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/maximiliankc/mxcs-engine/pkg/dsp/analysis"
	"github.com/maximiliankc/mxcs-engine/pkg/midi"
)

const testFs = 48000.0

// renderSynth drives the synth for n samples, dispatching the events of
// each block.
func renderSynth(t *testing.T, s *Synth, presses, releases []Event, n int) []float32 {
	t.Helper()
	block := s.BlockSize()
	out := make([]float32, 0, n)
	buf := make([]float32, block)
	for pos := uint64(0); len(out) < n; pos += uint64(block) {
		end := pos + uint64(block)
		var p, r []Event
		for _, e := range presses {
			if e.Index >= pos && e.Index < end {
				p = append(p, e)
			}
		}
		for _, e := range releases {
			if e.Index >= pos && e.Index < end {
				r = append(r, e)
			}
		}
		require.NoError(t, s.Process(buf, p, r))
		out = append(out, buf...)
	}
	return out[:n]
}

func newTestSynth(t *testing.T, mutate func(*Config)) *Synth {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SampleRate = testFs
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestProcessBufferLength(t *testing.T) {
	s := newTestSynth(t, nil)
	err := s.Process(make([]float32, s.BlockSize()+1), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestEventValidation(t *testing.T) {
	s := newTestSynth(t, nil)
	buf := make([]float32, s.BlockSize())

	err := s.Process(buf, []Event{{Index: 0, Note: 128}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEvent))

	err = s.Process(buf, []Event{{Index: uint64(s.BlockSize()), Note: 60}}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEvent), "index beyond the current block")

	require.NoError(t, s.Process(buf, []Event{{Index: 0, Note: 60}}, nil))
	err = s.Process(buf, nil, []Event{{Index: 0, Note: 60}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEvent), "index behind the current block")
}

func TestFrequencyTableQuery(t *testing.T) {
	s := newTestSynth(t, nil)
	want := midi.NewFrequencyTable(testFs)
	got := s.FrequencyTable()
	for k := 0; k < midi.NoteCount; k++ {
		assert.Equal(t, want[k], got[k], "note %d", k)
	}
}

func TestSilenceWithoutEvents(t *testing.T) {
	s := newTestSynth(t, nil)
	buf := make([]float32, s.BlockSize())
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Process(buf, nil, nil))
		for _, v := range buf {
			assert.Zero(t, v)
		}
	}
	assert.Zero(t, s.ActiveVoices())
}

func TestVoiceLifecycle(t *testing.T) {
	s := newTestSynth(t, func(c *Config) {
		c.Envelope = EnvelopeConfig{Attack: 0.001, Decay: 0.001, SustainDB: -6, Release: 0.005}
	})
	buf := make([]float32, s.BlockSize())

	require.NoError(t, s.Process(buf, []Event{{Index: 0, Note: 69}}, nil))
	assert.Equal(t, 1, s.ActiveVoices())

	// Hold for a while, then release and let the envelope die out.
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Process(buf, nil, nil))
	}
	require.NoError(t, s.Process(buf, nil, []Event{{Index: s.Position(), Note: 69}}))
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Process(buf, nil, nil))
	}
	assert.Zero(t, s.ActiveVoices())
}

func TestTiedPressAndRelease(t *testing.T) {
	// A press and release at the same index on the same note dispatch
	// press first, so the release finds its voice. Were the release
	// dispatched first it would be a no-op and the press would sustain
	// forever.
	s := newTestSynth(t, func(c *Config) {
		c.Envelope = EnvelopeConfig{Attack: 0.001, Decay: 0.001, SustainDB: -6, Release: 0.01}
	})
	buf := make([]float32, s.BlockSize())
	require.NoError(t, s.Process(buf,
		[]Event{{Index: 0, Note: 69}},
		[]Event{{Index: 0, Note: 69}}))
	for i := 0; i < 200; i++ {
		require.NoError(t, s.Process(buf, nil, nil))
	}
	assert.Zero(t, s.ActiveVoices(), "the tied release must have reached the voice")
}

func TestPolyphonicSpectrum(t *testing.T) {
	// Two held notes both appear in the output spectrum.
	const n = 1 << 15
	s := newTestSynth(t, func(c *Config) {
		c.Envelope = EnvelopeConfig{Attack: 0.001, Decay: 0.001, SustainDB: 0, Release: 0.05}
	})
	presses := []Event{
		{Index: 0, Note: 69}, // 440 Hz
		{Index: 0, Note: 76}, // ~659.3 Hz
	}
	out := renderSynth(t, s, presses, nil, n)
	assert.Equal(t, 2, s.ActiveVoices())

	samples := analysis.ToFloat64(out)
	analysis.ApplyWindow(samples, analysis.HannWindow(n))
	db := analysis.SpectrumDB(samples)
	maxDB := db[analysis.PeakBin(db)]
	peaks := analysis.Peaks(db, maxDB-20.0)

	foundA := false
	foundE := false
	for _, p := range peaks {
		f := analysis.BinFrequency(p, n, testFs)
		if math.Abs(f-midi.NoteFrequency(69)) < 2.0*testFs/n {
			foundA = true
		}
		if math.Abs(f-midi.NoteFrequency(76)) < 2.0*testFs/n {
			foundE = true
		}
	}
	assert.True(t, foundA, "440 Hz partial missing")
	assert.True(t, foundE, "659 Hz partial missing")
}

func TestVoiceStealing(t *testing.T) {
	s := newTestSynth(t, func(c *Config) {
		c.MaxPolyphony = 2
		c.Envelope = EnvelopeConfig{Attack: 0.001, Decay: 0.001, SustainDB: -6, Release: 0.05}
	})
	buf := make([]float32, s.BlockSize())

	require.NoError(t, s.Process(buf, []Event{{Index: 0, Note: 60}}, nil))
	require.NoError(t, s.Process(buf, []Event{{Index: s.Position(), Note: 64}}, nil))
	assert.Equal(t, 2, s.ActiveVoices())

	// The pool is full: a third press steals the oldest voice.
	require.NoError(t, s.Process(buf, []Event{{Index: s.Position(), Note: 67}}, nil))
	assert.Equal(t, 2, s.ActiveVoices())

	notes := map[int]bool{}
	for _, v := range s.voices {
		if v.Active() {
			notes[v.Note()] = true
		}
	}
	assert.True(t, notes[67], "new note must sound")
	assert.True(t, notes[64], "newer of the old notes survives")
	assert.False(t, notes[60], "oldest voice was stolen")
}

func TestStealPrefersReleasedVoice(t *testing.T) {
	s := newTestSynth(t, func(c *Config) {
		c.MaxPolyphony = 2
		c.Envelope = EnvelopeConfig{Attack: 0.001, Decay: 0.001, SustainDB: -6, Release: 1.0}
	})
	buf := make([]float32, s.BlockSize())

	require.NoError(t, s.Process(buf, []Event{{Index: 0, Note: 60}}, nil))
	require.NoError(t, s.Process(buf, []Event{{Index: s.Position(), Note: 64}}, nil))
	// Release the newer note; with a long release it keeps sounding.
	require.NoError(t, s.Process(buf, nil, []Event{{Index: s.Position(), Note: 64}}))
	assert.Equal(t, 2, s.ActiveVoices())

	// The released voice is stolen even though it is not the oldest.
	require.NoError(t, s.Process(buf, []Event{{Index: s.Position(), Note: 67}}, nil))
	notes := map[int]bool{}
	for _, v := range s.voices {
		if v.Active() {
			notes[v.Note()] = true
		}
	}
	assert.True(t, notes[60], "held voice survives")
	assert.True(t, notes[67])
	assert.False(t, notes[64])
}

func TestReleaseTargetsMostRecentPress(t *testing.T) {
	s := newTestSynth(t, func(c *Config) {
		c.MaxPolyphony = 4
		c.Envelope = EnvelopeConfig{Attack: 0.001, Decay: 0.001, SustainDB: -6, Release: 1.0}
	})
	buf := make([]float32, s.BlockSize())

	require.NoError(t, s.Process(buf, []Event{{Index: 0, Note: 69}}, nil))
	require.NoError(t, s.Process(buf, []Event{{Index: s.Position(), Note: 69}}, nil))
	assert.Equal(t, 2, s.ActiveVoices())

	require.NoError(t, s.Process(buf, nil, []Event{{Index: s.Position(), Note: 69}}))
	released := 0
	for _, v := range s.voices {
		if v.Active() && v.released {
			released++
			assert.Equal(t, uint64(s.BlockSize()), v.startAt,
				"the second press's voice releases first")
		}
	}
	assert.Equal(t, 1, released)

	// Releasing again targets the remaining voice; a third release has
	// no target and is a no-op.
	require.NoError(t, s.Process(buf, nil, []Event{{Index: s.Position(), Note: 69}}))
	require.NoError(t, s.Process(buf, nil, []Event{{Index: s.Position(), Note: 69}}))
}

func TestVoiceTracksEnvelope(t *testing.T) {
	// End to end: the analytic-signal magnitude of a sine voice follows
	// the envelope within an RMS error of 0.01 over one second.
	const n = int(testFs)
	env := EnvelopeConfig{Attack: 0.05, Decay: 0.05, SustainDB: -6, Release: 0.2}
	s := newTestSynth(t, func(c *Config) {
		c.Envelope = env
	})

	press := Event{Index: 4800, Note: 81}    // 0.1 s, 880 Hz
	release := Event{Index: 24000, Note: 81} // 0.5 s
	out := renderSynth(t, s, []Event{press}, []Event{release}, n)

	// Reference: the envelope alone, driven with the same block timing.
	ref := newTestSynth(t, func(c *Config) {
		c.Envelope = env
	})
	refVoice := ref.voices[0]
	refMag := make([]float32, 0, n)
	buf := make([]float32, ref.BlockSize())
	for pos := 0; pos < n; pos += ref.BlockSize() {
		if press.Index >= uint64(pos) && press.Index < uint64(pos+ref.BlockSize()) {
			refVoice.env.Trigger()
		}
		if release.Index >= uint64(pos) && release.Index < uint64(pos+ref.BlockSize()) {
			refVoice.env.Release()
		}
		refVoice.env.Process(buf)
		refMag = append(refMag, buf...)
	}

	a := analysis.Analytic(analysis.ToFloat64(out))
	errSq := 0.0
	for i := 0; i < n; i++ {
		e := math.Hypot(real(a[i]), imag(a[i])) - float64(refMag[i])
		errSq += e * e
	}
	rms := math.Sqrt(errSq / float64(n))
	assert.Less(t, rms, 0.01)
}

func TestHeadroomBound(t *testing.T) {
	// With the envelope's <= 0 dBFS guarantee, the mix of k voices is
	// bounded by k.
	s := newTestSynth(t, func(c *Config) {
		c.Envelope = EnvelopeConfig{Attack: 0.001, Decay: 0.001, SustainDB: 0, Release: 0.05}
	})
	presses := []Event{
		{Index: 0, Note: 60},
		{Index: 0, Note: 64},
		{Index: 0, Note: 67},
	}
	out := renderSynth(t, s, presses, nil, 1<<14)
	for i, v := range out {
		require.LessOrEqual(t, math.Abs(float64(v)), 3.0, "sample %d", i)
	}
}

func TestRandomEventStreams(t *testing.T) {
	// Any well-formed event stream processes without error and produces
	// finite output.
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultConfig()
		cfg.SampleRate = testFs
		cfg.MaxPolyphony = rapid.IntRange(1, 8).Draw(t, "polyphony")
		cfg.Generator = GeneratorKind(rapid.IntRange(0, 5).Draw(t, "generator"))
		s, err := New(cfg)
		if err != nil {
			t.Fatalf("config rejected: %v", err)
		}

		buf := make([]float32, s.BlockSize())
		blocks := rapid.IntRange(1, 64).Draw(t, "blocks")
		for b := 0; b < blocks; b++ {
			var presses, releases []Event
			for i := rapid.IntRange(0, 2).Draw(t, "presses"); i > 0; i-- {
				presses = append(presses, Event{
					Index: s.Position() + uint64(rapid.IntRange(0, s.BlockSize()-1).Draw(t, "pidx")),
					Note:  rapid.IntRange(0, 127).Draw(t, "pnote"),
				})
			}
			for i := rapid.IntRange(0, 2).Draw(t, "releases"); i > 0; i-- {
				releases = append(releases, Event{
					Index: s.Position() + uint64(rapid.IntRange(0, s.BlockSize()-1).Draw(t, "ridx")),
					Note:  rapid.IntRange(0, 127).Draw(t, "rnote"),
				})
			}
			if err := s.Process(buf, presses, releases); err != nil {
				t.Fatalf("process: %v", err)
			}
			for i, v := range buf {
				if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
					t.Fatalf("non-finite sample %d in block %d", i, b)
				}
			}
		}
	})
}
