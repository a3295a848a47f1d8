// Package utility provides common DSP utility functions and processors.
package utility

import (
	"math/rand"
)

// NoiseGenerator produces white noise test and excitation signals.
type NoiseGenerator struct {
	rand *rand.Rand
}

// NewNoiseGenerator creates a noise generator with a fixed seed so that
// generated sequences are reproducible.
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	return &NoiseGenerator{rand: rand.New(rand.NewSource(seed))}
}

// Uniform returns a sample uniformly distributed in [-1, 1).
func (g *NoiseGenerator) Uniform() float32 {
	return float32(2.0*g.rand.Float64() - 1.0)
}

// Gaussian returns a normally distributed sample with the given standard
// deviation.
func (g *NoiseGenerator) Gaussian(stddev float64) float32 {
	return float32(g.rand.NormFloat64() * stddev)
}

// Process fills buffer with uniform white noise - no allocations.
func (g *NoiseGenerator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = g.Uniform()
	}
}

// ProcessGaussian fills buffer with Gaussian noise - no allocations.
func (g *NoiseGenerator) ProcessGaussian(buffer []float32, stddev float64) {
	for i := range buffer {
		buffer[i] = g.Gaussian(stddev)
	}
}
