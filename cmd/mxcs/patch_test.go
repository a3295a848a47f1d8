package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maximiliankc/mxcs-engine/pkg/synth"
)

const samplePatch = `
sample_rate: 44100
block_size: 32
polyphony: 4
generator: square
oscillator: table
envelope:
  attack: 0.02
  decay: 0.05
  sustain_db: -12
  release: 0.25
modulator:
  depth: 0.3
  freq_hz: 6
filter:
  kind: lowpass
  cutoff_hz: 1500
  resonance_db: 3
notes:
  - {note: 60, on: 0.0, off: 0.5}
  - {note: 64, on: 0.25, off: 0.75}
tail: 1.0
`

func writePatch(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPatch(t *testing.T) {
	p, err := loadPatch(writePatch(t, samplePatch))
	require.NoError(t, err)

	cfg, err := p.config()
	require.NoError(t, err)
	assert.Equal(t, 44100.0, cfg.SampleRate)
	assert.Equal(t, 32, cfg.BlockSize)
	assert.Equal(t, 4, cfg.MaxPolyphony)
	assert.Equal(t, synth.GeneratorSquare, cfg.Generator)
	assert.Equal(t, synth.OscTable, cfg.Oscillator)
	assert.Equal(t, -12.0, cfg.Envelope.SustainDB)
	assert.Equal(t, synth.FilterLowpass, cfg.Filter.Kind)
	assert.Equal(t, 1500.0, cfg.Filter.CutoffHz)
	assert.NoError(t, cfg.Validate())
}

func TestPatchDefaults(t *testing.T) {
	p, err := loadPatch(writePatch(t, "notes: [{note: 69, on: 0, off: 0.1}]\n"))
	require.NoError(t, err)
	cfg, err := p.config()
	require.NoError(t, err)
	assert.Equal(t, 48000.0, cfg.SampleRate)
	assert.Equal(t, synth.GeneratorSine, cfg.Generator)
	assert.NoError(t, cfg.Validate())
}

func TestPatchEvents(t *testing.T) {
	p, err := loadPatch(writePatch(t, samplePatch))
	require.NoError(t, err)

	presses, releases, total := p.events()
	require.Len(t, presses, 2)
	require.Len(t, releases, 2)
	assert.Equal(t, uint64(0), presses[0].Index)
	assert.Equal(t, 60, presses[0].Note)
	assert.Equal(t, uint64(0.25*44100), presses[1].Index)
	assert.Equal(t, uint64(0.5*44100), releases[0].Index)

	// Total covers the last release plus the tail, in whole blocks.
	assert.GreaterOrEqual(t, total, uint64(1.75*44100))
	assert.Zero(t, total%uint64(p.BlockSize))
}

func TestPatchRejectsUnknownNames(t *testing.T) {
	p, err := loadPatch(writePatch(t, "generator: theremin\n"))
	require.NoError(t, err)
	_, err = p.config()
	assert.Error(t, err)
}

func TestRenderSequence(t *testing.T) {
	p, err := loadPatch(writePatch(t, samplePatch))
	require.NoError(t, err)
	cfg, err := p.config()
	require.NoError(t, err)
	engine, err := synth.New(cfg)
	require.NoError(t, err)

	presses, releases, total := p.events()
	samples, err := render(engine, presses, releases, total)
	require.NoError(t, err)
	assert.Len(t, samples, int(total))

	peak := float32(0)
	for _, v := range samples {
		if v > peak {
			peak = v
		}
	}
	assert.Greater(t, peak, float32(0.01), "sequence should produce audio")
}
