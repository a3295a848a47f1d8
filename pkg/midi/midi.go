// Package midi provides MIDI note numbering and the note-to-frequency
// table used by the synth.
package midi

import "math"

// NoteCount is the number of MIDI note numbers.
const NoteCount = 128

// noteA4 is the reference note (A above middle C, 440 Hz).
const (
	noteA4   = 69
	tuningA4 = 440.0
)

// ValidNote reports whether note is a legal MIDI note number.
func ValidNote(note int) bool {
	return note >= 0 && note < NoteCount
}

// NoteFrequency returns the pitch of a MIDI note in Hz under equal
// temperament.
func NoteFrequency(note int) float64 {
	return tuningA4 * math.Exp2(float64(note-noteA4)/12.0)
}

// FrequencyTable maps each MIDI note to its normalized frequency (cycles
// per sample). Entries are stored as float32 and stay within 0.5 cents of
// ideal.
type FrequencyTable [NoteCount]float32

// NewFrequencyTable builds the table for the given sample rate.
func NewFrequencyTable(sampleRate float64) FrequencyTable {
	var t FrequencyTable
	for k := range t {
		t[k] = float32(NoteFrequency(k) / sampleRate)
	}
	return t
}

// Lookup returns the normalized frequency of a note.
func (t *FrequencyTable) Lookup(note int) float64 {
	return float64(t[note])
}
