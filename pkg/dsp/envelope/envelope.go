// Package envelope provides a dB-domain ADSR envelope generator.
package envelope

import (
	"github.com/maximiliankc/mxcs-engine/pkg/dsp"
	"github.com/maximiliankc/mxcs-engine/pkg/dsp/utility"
)

// Stage represents the current envelope stage.
type Stage int

const (
	// StageIdle: the envelope is at the floor and produces silence.
	StageIdle Stage = iota
	// StageAttack: rising towards 0 dB.
	StageAttack
	// StageDecay: falling towards the sustain level.
	StageDecay
	// StageSustain: holding the sustain level.
	StageSustain
	// StageRelease: falling towards the floor.
	StageRelease
)

// ADSR is an attack/decay/sustain/release envelope operating on a dB
// level. The level always stays within [-dsp.DBFloor, 0]; the emitted
// magnitude never exceeds 1.
//
// A Trigger in any stage enters Attack from the current level rather
// than the floor, so a second press is always audible as a rise.
type ADSR struct {
	sampleRate float64

	// Per-sample dB increments, derived from the stage durations.
	attackStep  float64 // > 0
	decayStep   float64 // <= 0
	releaseStep float64 // < 0
	sustain     float64 // dB, in [-dsp.DBFloor, 0]

	stage Stage
	level float64 // dB
}

// New creates an idle envelope.
func New(sampleRate float64) *ADSR {
	e := &ADSR{
		sampleRate: sampleRate,
		stage:      StageIdle,
		level:      -dsp.DBFloor,
	}
	e.Set(0.01, 0.1, -10.0, 0.3)
	return e
}

// Set configures the stage durations in seconds and the sustain level in
// dB. Durations are converted to (possibly fractional) sample counts; a
// stage of one sample or fewer traverses its full range in a single step.
func (e *ADSR) Set(attack, decay, sustainDB, release float64) {
	a := attack * e.sampleRate
	d := decay * e.sampleRate
	r := release * e.sampleRate
	s := utility.Clamp(sustainDB, -dsp.DBFloor, 0)

	e.sustain = s
	if a > 1 {
		e.attackStep = dsp.DBFloor / a
	} else {
		e.attackStep = dsp.DBFloor
	}
	if d > 1 {
		e.decayStep = s / d
	} else {
		e.decayStep = s
	}
	if r > 1 {
		e.releaseStep = -(dsp.DBFloor + s) / r
	} else {
		e.releaseStep = -(dsp.DBFloor + s)
	}
}

// Trigger starts the attack stage from the current level.
func (e *ADSR) Trigger() {
	e.stage = StageAttack
}

// Release starts the release stage. It has no effect when idle.
func (e *ADSR) Release() {
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

// Reset immediately returns the envelope to the floor.
func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.level = -dsp.DBFloor
}

// IsActive reports whether the envelope is above the floor or moving.
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// CurrentStage returns the current stage.
func (e *ADSR) CurrentStage() Stage {
	return e.stage
}

// LevelDB returns the current level in dB.
func (e *ADSR) LevelDB() float64 {
	return e.level
}

// next advances one sample and returns the level in dB.
func (e *ADSR) next() float64 {
	switch e.stage {
	case StageAttack:
		e.level += e.attackStep
		if e.level >= 0 {
			e.level = 0
			e.stage = StageDecay
		}
	case StageDecay:
		e.level += e.decayStep
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = StageSustain
		}
	case StageSustain:
		e.level = e.sustain
	case StageRelease:
		e.level += e.releaseStep
		if e.level <= -dsp.DBFloor {
			e.level = -dsp.DBFloor
			e.stage = StageIdle
		}
	case StageIdle:
		e.level = -dsp.DBFloor
	}
	return e.level
}

// Next advances one sample and returns the magnitude.
func (e *ADSR) Next() float32 {
	return float32(utility.DB2Mag(e.next()))
}

// Process fills buffer with envelope magnitudes - no allocations.
func (e *ADSR) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = e.Next()
	}
}

// ProcessMultiply multiplies buffer by the envelope - no allocations.
func (e *ADSR) ProcessMultiply(buffer []float32) {
	for i := range buffer {
		buffer[i] *= e.Next()
	}
}
