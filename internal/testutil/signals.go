package testutil

import (
	"math"

	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/mat"
)

// Full-scale factors for integer PCM.
const (
	fullScale32 = 1 << 31
	fullScale16 = 1 << 15
)

// Sine returns n samples of amp·sin(2π·freq·i/rate + phase).
func Sine(n int, freq, rate, amp, phase float64) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freq / rate
	for i := range out {
		out[i] = amp * math.Sin(w*float64(i)+phase)
	}
	return out
}

// ToInt32 converts [-1, 1) floats to Q1.31 samples with clamping.
func ToInt32(x []float64) []int32 {
	out := make([]int32, len(x))
	for i, v := range x {
		out[i] = int32(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Round(v*fullScale32))))
	}
	return out
}

// ToInt16 converts [-1, 1) floats to Q1.15 samples with clamping.
func ToInt16(x []float64) []int16 {
	out := make([]int16, len(x))
	for i, v := range x {
		out[i] = int16(math.Max(math.MinInt16, math.Min(math.MaxInt16, math.Round(v*fullScale16))))
	}
	return out
}

// FromInt32 converts Q1.31 samples to floats.
func FromInt32(x []int32) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v) / fullScale32
	}
	return out
}

// FromInt16 converts Q1.15 samples to floats.
func FromInt16(x []int16) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v) / fullScale16
	}
	return out
}

// SineResidualDB fits a·sin + b·cos + c at freq to x by least squares and
// returns the energy of what the fit leaves over, relative to the fitted
// sine, in dB. A clean resampled tone scores far below zero.
func SineResidualDB(x []float64, freq, rate float64) float64 {
	n := len(x)
	if n < 3 {
		return 0
	}

	w := 2 * math.Pi * freq / rate
	a := mat.NewDense(n, 3, nil)
	for i := range n {
		s, c := math.Sincos(w * float64(i))
		a.Set(i, 0, s)
		a.Set(i, 1, c)
		a.Set(i, 2, 1)
	}

	var coef mat.VecDense
	if err := coef.SolveVec(a, mat.NewVecDense(n, x)); err != nil {
		return 0
	}

	var fit mat.VecDense
	fit.MulVec(a, &coef)

	residual := make([]float64, n)
	for i, v := range x {
		residual[i] = v - fit.AtVec(i)
	}

	signal := (coef.AtVec(0)*coef.AtVec(0) + coef.AtVec(1)*coef.AtVec(1)) / 2 * float64(n)
	noise := f64.DotProduct(residual, residual)
	if signal == 0 {
		return 0
	}
	if noise == 0 {
		return math.Inf(-1)
	}
	return 10 * math.Log10(noise/signal)
}
