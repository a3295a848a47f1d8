package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maximiliankc/mxcs-engine/pkg/dsp"
	"github.com/maximiliankc/mxcs-engine/pkg/synth"
)

// patchFile is the YAML description of a patch and the note sequence to
// render with it.
type patchFile struct {
	SampleRate float64 `yaml:"sample_rate"`
	BlockSize  int     `yaml:"block_size"`
	Polyphony  int     `yaml:"polyphony"`
	Generator  string  `yaml:"generator"`
	Oscillator string  `yaml:"oscillator"`

	Envelope struct {
		Attack    float64 `yaml:"attack"`
		Decay     float64 `yaml:"decay"`
		SustainDB float64 `yaml:"sustain_db"`
		Release   float64 `yaml:"release"`
	} `yaml:"envelope"`

	Modulator struct {
		Depth  float64 `yaml:"depth"`
		FreqHz float64 `yaml:"freq_hz"`
	} `yaml:"modulator"`

	Filter struct {
		Kind        string  `yaml:"kind"`
		CutoffHz    float64 `yaml:"cutoff_hz"`
		ResonanceDB float64 `yaml:"resonance_db"`
	} `yaml:"filter"`

	Notes []noteSpec `yaml:"notes"`
	Tail  float64    `yaml:"tail"` // seconds rendered after the last release
}

// noteSpec is one note of the sequence, with on/off times in seconds.
type noteSpec struct {
	Note int     `yaml:"note"`
	On   float64 `yaml:"on"`
	Off  float64 `yaml:"off"`
}

func loadPatch(path string) (*patchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &patchFile{}
	p.SampleRate = dsp.SampleRate48k
	p.BlockSize = dsp.DefaultBlockSize
	p.Polyphony = 8
	p.Generator = "sine"
	p.Envelope.Attack = 0.01
	p.Envelope.Decay = 0.1
	p.Envelope.SustainDB = -10
	p.Envelope.Release = 0.3
	p.Tail = 0.5
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

func (p *patchFile) config() (synth.Config, error) {
	cfg := synth.Config{
		SampleRate:   p.SampleRate,
		BlockSize:    p.BlockSize,
		MaxPolyphony: p.Polyphony,
		Envelope: synth.EnvelopeConfig{
			Attack:    p.Envelope.Attack,
			Decay:     p.Envelope.Decay,
			SustainDB: p.Envelope.SustainDB,
			Release:   p.Envelope.Release,
		},
		Modulator: synth.ModulatorConfig{
			Depth:  p.Modulator.Depth,
			FreqHz: p.Modulator.FreqHz,
		},
	}

	switch strings.ToLower(p.Generator) {
	case "", "sine":
		cfg.Generator = synth.GeneratorSine
	case "blit":
		cfg.Generator = synth.GeneratorBlit
	case "bpblit":
		cfg.Generator = synth.GeneratorBpBlit
	case "sawtooth", "saw":
		cfg.Generator = synth.GeneratorSawtooth
	case "square":
		cfg.Generator = synth.GeneratorSquare
	case "triangle":
		cfg.Generator = synth.GeneratorTriangle
	default:
		return cfg, fmt.Errorf("unknown generator %q", p.Generator)
	}

	switch strings.ToLower(p.Oscillator) {
	case "", "recurrence":
		cfg.Oscillator = synth.OscRecurrence
	case "table", "lookup":
		cfg.Oscillator = synth.OscTable
	default:
		return cfg, fmt.Errorf("unknown oscillator form %q", p.Oscillator)
	}

	switch strings.ToLower(p.Filter.Kind) {
	case "", "none":
		cfg.Filter.Kind = synth.FilterNone
	case "lowpass", "lp":
		cfg.Filter.Kind = synth.FilterLowpass
	case "highpass", "hp":
		cfg.Filter.Kind = synth.FilterHighpass
	default:
		return cfg, fmt.Errorf("unknown filter kind %q", p.Filter.Kind)
	}
	cfg.Filter.CutoffHz = p.Filter.CutoffHz
	cfg.Filter.ResonanceDB = p.Filter.ResonanceDB
	return cfg, nil
}

// events converts the note list to press/release schedules sorted by
// sample index, and returns the total stream length in samples.
func (p *patchFile) events() (presses, releases []synth.Event, total uint64) {
	var last float64
	for _, n := range p.Notes {
		presses = append(presses, synth.Event{
			Index: uint64(n.On * p.SampleRate),
			Note:  n.Note,
		})
		releases = append(releases, synth.Event{
			Index: uint64(n.Off * p.SampleRate),
			Note:  n.Note,
		})
		if n.Off > last {
			last = n.Off
		}
	}
	sort.Slice(presses, func(i, j int) bool { return presses[i].Index < presses[j].Index })
	sort.Slice(releases, func(i, j int) bool { return releases[i].Index < releases[j].Index })

	total = uint64((last + p.Tail) * p.SampleRate)
	// round up to whole blocks
	block := uint64(p.BlockSize)
	if rem := total % block; rem != 0 {
		total += block - rem
	}
	return presses, releases, total
}
