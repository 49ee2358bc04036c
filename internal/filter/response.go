package filter

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/c128"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// minMagnitude keeps MagnitudeDB finite.
	minMagnitude = 1e-12

	dbMultiplier = 20.0
)

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	return dbMultiplier * math.Log10(math.Max(magnitude, minMagnitude))
}

// spectrum zero-pads taps to fftSize and returns the fftSize/2+1 bins from
// DC to Nyquist. Bin i lies at i/fftSize cycles per sample.
func spectrum(taps []float64, fftSize int) []complex128 {
	if fftSize < len(taps) {
		fftSize = len(taps)
	}
	padded := make([]float64, fftSize)
	copy(padded, taps)
	return fourier.NewFFT(fftSize).Coefficients(nil, padded)
}

// MagnitudeResponseDB returns |H(f)| in dB for fftSize/2+1 bins from DC to
// Nyquist.
func MagnitudeResponseDB(taps []float64, fftSize int) []float64 {
	bins := spectrum(taps, fftSize)
	out := make([]float64, len(bins))
	for i, c := range bins {
		out[i] = MagnitudeDB(cmplx.Abs(c))
	}
	return out
}

// StopbandLevel returns the highest magnitude in dB at or above edge
// (cycles per sample, 0 to 0.5).
func StopbandLevel(taps []float64, edge float64, fftSize int) float64 {
	mags := MagnitudeResponseDB(taps, fftSize)
	size := 2 * (len(mags) - 1)
	peak := math.Inf(-1)
	for i, m := range mags {
		if float64(i)/float64(size) >= edge {
			peak = math.Max(peak, m)
		}
	}
	return peak
}

// DelayError measures how far the taps are from an ideal fractional delay
// of delay samples below edge: it removes the ideal linear phase from the
// response and returns the largest |H(f)·e^{j2πf·delay} - 1| in dB.
func DelayError(taps []float64, delay, edge float64, fftSize int) float64 {
	bins := spectrum(taps, fftSize)
	size := 2 * (len(bins) - 1)

	rot := make([]complex128, len(bins))
	for i := range rot {
		rot[i] = cmplx.Rect(1, 2*math.Pi*float64(i)/float64(size)*delay)
	}
	aligned := make([]complex128, len(bins))
	c128.Mul(aligned, bins, rot)

	worst := 0.0
	for i, c := range aligned {
		if float64(i)/float64(size) > edge {
			break
		}
		worst = math.Max(worst, cmplx.Abs(c-1))
	}
	return MagnitudeDB(worst)
}
