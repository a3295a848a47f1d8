package midi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, NoteFrequency(69), 1e-9)
	assert.InDelta(t, 880.0, NoteFrequency(81), 1e-9)
	assert.InDelta(t, 220.0, NoteFrequency(57), 1e-9)
	assert.InDelta(t, 261.6255653, NoteFrequency(60), 1e-6)
}

func TestValidNote(t *testing.T) {
	assert.True(t, ValidNote(0))
	assert.True(t, ValidNote(127))
	assert.False(t, ValidNote(-1))
	assert.False(t, ValidNote(128))
}

func TestFrequencyTableAccuracy(t *testing.T) {
	// Every entry must stay within half a cent of ideal after float32
	// storage.
	for _, fs := range []float64{44100, 48000} {
		table := NewFrequencyTable(fs)
		for k := 0; k < NoteCount; k++ {
			ref := NoteFrequency(k)
			got := table.Lookup(k) * fs
			cents := 1200.0 * math.Log2(got/ref)
			assert.Less(t, math.Abs(cents), 0.5, "fs=%v note=%d", fs, k)
		}
	}
}

func TestFrequencyTableBelowNyquist(t *testing.T) {
	table := NewFrequencyTable(44100)
	for k := 0; k < NoteCount; k++ {
		assert.Less(t, table.Lookup(k), 0.5, "note %d", k)
	}
}
