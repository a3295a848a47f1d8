package filter

import "github.com/maximiliankc/mxcs-engine/pkg/dsp"

// LeakyIntegrator approximates an ideal integrator with the transfer
// function (1 - z^-1) / (1 - 2r z^-1 + r^2 z^-2). The pole pair sits at
// radius r just inside the unit circle and the zero at DC removes the
// integrator's DC build-up from transients. Larger r lowers the cutoff
// but lengthens the startup transient.
type LeakyIntegrator struct {
	a1, a2 float64 // 2r, r^2
	x1     float64
	y1, y2 float64
}

// NewLeakyIntegrator creates an integrator with pole radius r. Values
// outside (0, 1) fall back to the default.
func NewLeakyIntegrator(r float64) *LeakyIntegrator {
	if r <= 0 || r >= 1 {
		r = dsp.DefaultIntegratorLeak
	}
	return &LeakyIntegrator{a1: 2.0 * r, a2: r * r}
}

// Reset clears the integrator state.
func (l *LeakyIntegrator) Reset() {
	l.x1 = 0
	l.y1 = 0
	l.y2 = 0
}

// Next integrates a single sample.
func (l *LeakyIntegrator) Next(x float64) float64 {
	y := x - l.x1 + l.a1*l.y1 - l.a2*l.y2
	l.x1 = x
	l.y2 = l.y1
	l.y1 = y
	return y
}

// Process integrates a buffer in place - no allocations.
func (l *LeakyIntegrator) Process(buffer []float32) {
	for i := range buffer {
		buffer[i] = float32(l.Next(float64(buffer[i])))
	}
}
