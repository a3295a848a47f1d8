// Package synth implements the polyphonic block-processing synthesizer:
// voice allocation, event dispatch, and mix-down over a pool of voices.
package synth

import (
	"fmt"

	"github.com/maximiliankc/mxcs-engine/pkg/midi"
)

// Event is a keyed press or release at an absolute stream sample index.
// Which of the two it is follows from the list it is passed in.
type Event struct {
	Index uint64
	Note  int
}

// Synth owns a fixed pool of voices and the note frequency table. It is
// single threaded and synchronous: each Process call consumes the events
// of one block and emits exactly one block of samples.
type Synth struct {
	cfg     Config
	table   midi.FrequencyTable
	voices  []*Voice
	scratch []float32
	pos     uint64 // stream index of the next sample to emit
}

// New constructs a synth, validating every parameter and sizing all
// buffers. The audio path performs no further allocation.
func New(cfg Config) (*Synth, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Synth{
		cfg:     cfg,
		table:   midi.NewFrequencyTable(cfg.SampleRate),
		voices:  make([]*Voice, cfg.MaxPolyphony),
		scratch: make([]float32, cfg.BlockSize),
	}
	for i := range s.voices {
		s.voices[i] = newVoice(&cfg)
	}
	return s, nil
}

// Config returns the construction parameters.
func (s *Synth) Config() Config {
	return s.cfg
}

// BlockSize returns the number of samples emitted per Process call.
func (s *Synth) BlockSize() int {
	return s.cfg.BlockSize
}

// Position returns the stream index of the next output sample.
func (s *Synth) Position() uint64 {
	return s.pos
}

// FrequencyTable returns the 128 normalized note frequencies.
func (s *Synth) FrequencyTable() [midi.NoteCount]float32 {
	return s.table
}

// ActiveVoices returns the number of sounding voices.
func (s *Synth) ActiveVoices() int {
	n := 0
	for _, v := range s.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

// Process renders one block into out, which must be exactly one block
// long. presses and releases list this block's events in non-decreasing
// index order; presses dispatch before releases so that a tied
// press/release on the same voice retriggers before it releases. Events
// outside the block or the MIDI range fail with an EventError and leave
// the block unrendered.
func (s *Synth) Process(out []float32, presses, releases []Event) error {
	if len(out) != s.cfg.BlockSize {
		return fmt.Errorf("%w: output buffer length %d does not match block size %d",
			ErrConfiguration, len(out), s.cfg.BlockSize)
	}
	if err := s.checkEvents(presses); err != nil {
		return err
	}
	if err := s.checkEvents(releases); err != nil {
		return err
	}

	for _, e := range presses {
		s.noteOn(e)
	}
	for _, e := range releases {
		s.noteOff(e)
	}

	for i := range out {
		out[i] = 0
	}
	for _, v := range s.voices {
		if !v.Active() {
			continue
		}
		v.process(s.scratch)
		for i := range out {
			out[i] += s.scratch[i]
		}
	}
	s.pos += uint64(s.cfg.BlockSize)
	return nil
}

// checkEvents validates note range and block membership.
func (s *Synth) checkEvents(events []Event) error {
	end := s.pos + uint64(s.cfg.BlockSize)
	for _, e := range events {
		if !midi.ValidNote(e.Note) {
			return fmt.Errorf("%w: note %d outside 0..127", ErrEvent, e.Note)
		}
		if e.Index < s.pos || e.Index >= end {
			return fmt.Errorf("%w: sample index %d outside current block [%d, %d)",
				ErrEvent, e.Index, s.pos, end)
		}
	}
	return nil
}

// noteOn allocates a voice for a press and triggers it.
func (s *Synth) noteOn(e Event) {
	v := s.allocate()
	v.trigger(e.Note, s.table.Lookup(e.Note), e.Index)
}

// noteOff releases the voice currently playing the note; with several,
// the one pressed most recently. A release with no matching voice is a
// no-op: its voice may already have been stolen.
func (s *Synth) noteOff(e Event) {
	var target *Voice
	for _, v := range s.voices {
		if !v.Active() || v.released || v.Note() != e.Note {
			continue
		}
		if target == nil || v.startAt > target.startAt {
			target = v
		}
	}
	if target != nil {
		target.release(e.Index)
	}
}

// allocate picks a voice for a new press: the first idle voice in pool
// order, else the released voice quiet the longest, else the oldest
// voice.
func (s *Synth) allocate() *Voice {
	for _, v := range s.voices {
		if !v.Active() {
			return v
		}
	}
	var steal *Voice
	for _, v := range s.voices {
		if !v.released {
			continue
		}
		if steal == nil || v.releaseAt < steal.releaseAt {
			steal = v
		}
	}
	if steal != nil {
		return steal
	}
	for _, v := range s.voices {
		if steal == nil || v.startAt < steal.startAt {
			steal = v
		}
	}
	return steal
}
