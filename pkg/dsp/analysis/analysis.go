// Package analysis provides offline measurement helpers used by the test
// suites: magnitude spectra, peak finding, and the analytic signal. All
// transforms are backed by gonum's fourier package.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum returns the magnitude of the real FFT of x, normalized by the
// sequence length. The result has len(x)/2+1 bins.
func Spectrum(x []float64) []float64 {
	fft := fourier.NewFFT(len(x))
	coeff := fft.Coefficients(nil, x)
	mag := make([]float64, len(coeff))
	n := float64(len(x))
	for i, c := range coeff {
		mag[i] = cmplxAbs(c) / n
	}
	return mag
}

// SpectrumDB returns the magnitude spectrum in dB, flooring at -200 dB to
// keep log10 defined for empty bins.
func SpectrumDB(x []float64) []float64 {
	mag := Spectrum(x)
	for i, m := range mag {
		if m < 1e-10 {
			m = 1e-10
		}
		mag[i] = 20.0 * math.Log10(m)
	}
	return mag
}

// HannWindow returns an n-point Hann window.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// ApplyWindow multiplies x by w in place.
func ApplyWindow(x, w []float64) {
	for i := range x {
		x[i] *= w[i]
	}
}

// Peaks returns the indices of local maxima in mag that rise above
// minHeight. Endpoints are not considered peaks.
func Peaks(mag []float64, minHeight float64) []int {
	var peaks []int
	for i := 1; i < len(mag)-1; i++ {
		if mag[i] > minHeight && mag[i] > mag[i-1] && mag[i] >= mag[i+1] {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// PeakBin returns the index of the largest magnitude bin.
func PeakBin(mag []float64) int {
	best := 0
	for i, m := range mag {
		if m > mag[best] {
			best = i
		}
	}
	return best
}

// BinFrequency converts a real-FFT bin index to Hz.
func BinFrequency(bin, fftLen int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(fftLen)
}

// Analytic returns the analytic signal of x (the Hilbert transform
// method): the spectrum's negative frequencies are zeroed and positive
// frequencies doubled. The magnitude of the result is the signal
// envelope.
func Analytic(x []float64) []complex128 {
	n := len(x)
	fft := fourier.NewCmplxFFT(n)
	src := make([]complex128, n)
	for i, v := range x {
		src[i] = complex(v, 0)
	}
	coeff := fft.Coefficients(nil, src)

	// Positive frequencies double, negatives zero; DC and (for even n)
	// Nyquist stay as they are.
	for i := 1; i < (n+1)/2; i++ {
		coeff[i] *= 2
	}
	for i := n/2 + 1; i < n; i++ {
		coeff[i] = 0
	}

	out := fft.Sequence(nil, coeff)
	inv := complex(1.0/float64(n), 0)
	for i := range out {
		out[i] *= inv
	}
	return out
}

// RMS returns the root mean square of x.
func RMS(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// ToFloat64 widens a float32 sample buffer.
func ToFloat64(x []float32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
