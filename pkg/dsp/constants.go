// Package dsp provides digital signal processing utilities and algorithms.
package dsp

// Common audio constants used throughout the DSP packages and the synth.
const (
	// DBFloor is the silence floor in dB. Envelope levels live in
	// [-DBFloor, 0].
	DBFloor = 100.0

	// MsincThreshold bounds the denominator of the periodic sinc before
	// the limit branch takes over (scaled by 1/m at the call site).
	MsincThreshold = 1.0 / 4294967296.0 // 2^-32

	// HarmonicGuard is the fraction of the sample rate the highest BLIT
	// harmonic may reach. 0.4 rather than 0.5 leaves a margin below
	// Nyquist.
	HarmonicGuard = 0.4

	// DefaultIntegratorLeak is the pole radius of the leaky integrator.
	DefaultIntegratorLeak = 0.999

	// Block size limits for the synth processing loop.
	MinBlockSize     = 1
	DefaultBlockSize = 16
	MaxBlockSize     = 256

	// Phase constants
	TwoPi  = 6.283185307179586
	Pi     = 3.141592653589793
	HalfPi = 1.5707963267948966

	// Common sample rates
	SampleRate44k1 = 44100.0
	SampleRate48k  = 48000.0
	SampleRate96k  = 96000.0

	// Gain/Level constants
	MinDB     = -200.0 // effectively silence
	UnityGain = 1.0
)
