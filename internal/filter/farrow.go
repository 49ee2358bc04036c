// Package filter designs the continuous-time lowpass prototype behind the
// Farrow structure and fits the per-tap polynomials that the runtime
// evaluates in fixed point.
//
// A Farrow filter of length M and order N-1 describes the impulse response
// for a fractional time offset t in [0, 1) as
//
//	h_k(t) = Σ_j g[j][k]·t^j,   k = 0..M-1
//
// where h_k(t) samples the windowed-sinc prototype at k + t - M/2. Tap 0
// multiplies the newest input sample, so increasing t moves the output
// instant toward newer input.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-asrc/internal/mathutil"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/mat"
)

// Design limits shared with the fixed-point runtime.
const (
	MinNumFilters     = 4
	MaxNumFilters     = 7
	MaxFilterLength   = 128
	FilterLengthAlign = 4
)

const (
	// fitNodesPerCoeff is the number of Chebyshev nodes per fitted
	// coefficient in the least-squares polynomial fit.
	fitNodesPerCoeff = 8

	// maxCutoff is the largest cutoff relative to the lower sample rate.
	maxCutoff = 0.5

	sincZeroThreshold = 1e-12
)

var (
	// ErrInvalidOrder reports a polynomial filter count outside 4..7.
	ErrInvalidOrder = errors.New("filter: number of polynomial filters out of range")

	// ErrInvalidLength reports a filter length that is not a positive multiple of 4 up to 128.
	ErrInvalidLength = errors.New("filter: invalid filter length")

	// ErrInvalidResponse reports an unusable cutoff, scale or window parameter.
	ErrInvalidResponse = errors.New("filter: invalid response parameters")
)

// FarrowParams describes one Farrow filter design.
type FarrowParams struct {
	// NumFilters is the number of polynomial coefficient vectors (order + 1).
	NumFilters int

	// FilterLength is the number of taps, a multiple of 4.
	FilterLength int

	// Beta is the Kaiser window β.
	Beta float64

	// Cutoff is the passband edge relative to the lower of the two sample
	// rates, in cycles per sample of that rate.
	Cutoff float64

	// Scale is min(1, fs_out/fs_in). Zero is treated as 1.
	Scale float64
}

// Validate checks if the parameters describe a realisable design.
func (p *FarrowParams) Validate() error {
	if p.NumFilters < MinNumFilters || p.NumFilters > MaxNumFilters {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidOrder, p.NumFilters, MinNumFilters, MaxNumFilters)
	}
	if p.FilterLength < FilterLengthAlign || p.FilterLength > MaxFilterLength || p.FilterLength%FilterLengthAlign != 0 {
		return fmt.Errorf("%w: %d taps (multiple of %d up to %d)", ErrInvalidLength, p.FilterLength, FilterLengthAlign, MaxFilterLength)
	}
	if p.Cutoff <= 0 || p.Cutoff > maxCutoff {
		return fmt.Errorf("%w: cutoff %f", ErrInvalidResponse, p.Cutoff)
	}
	if p.Scale < 0 || p.Scale > 1 {
		return fmt.Errorf("%w: scale %f", ErrInvalidResponse, p.Scale)
	}
	if p.Beta < 0 {
		return fmt.Errorf("%w: beta %f", ErrInvalidResponse, p.Beta)
	}
	return nil
}

// CutoffCycles returns the prototype cutoff in cycles per input sample.
func (p *FarrowParams) CutoffCycles() float64 {
	if p.Scale == 0 {
		return p.Cutoff
	}
	return p.Cutoff * p.Scale
}

// Prototype evaluates the windowed-sinc lowpass at u input samples from
// its centre. It is zero outside [-M/2, M/2].
func (p *FarrowParams) Prototype(u float64) float64 {
	half := float64(p.FilterLength) / 2
	fc := p.CutoffCycles()
	return 2 * fc * sinc(2*fc*u) * mathutil.Kaiser(u/half, p.Beta)
}

func sinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// FarrowBank holds the fitted polynomial coefficients in floating point.
type FarrowBank struct {
	Params FarrowParams

	// Coeffs[j][k] multiplies t^j for tap k.
	Coeffs [][]float64
}

// DesignFarrow fits, for every tap, a polynomial of degree NumFilters-1 in
// t over [0, 1] to the prototype by least squares on Chebyshev nodes, then
// scales the bank to unity DC gain at t = 0.
func DesignFarrow(p FarrowParams) (*FarrowBank, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n, m := p.NumFilters, p.FilterLength
	nodes := fitNodesPerCoeff * n
	half := float64(m) / 2

	a := mat.NewDense(nodes, n, nil)
	b := mat.NewDense(nodes, m, nil)
	for i := range nodes {
		t := 0.5 - 0.5*math.Cos(math.Pi*(2*float64(i)+1)/(2*float64(nodes)))
		pow := 1.0
		for j := range n {
			a.Set(i, j, pow)
			pow *= t
		}
		for k := range m {
			b.Set(i, k, p.Prototype(float64(k)+t-half))
		}
	}

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, fmt.Errorf("%w: polynomial fit: %w", ErrInvalidResponse, err)
	}

	bank := &FarrowBank{Params: p, Coeffs: make([][]float64, n)}
	for j := range n {
		bank.Coeffs[j] = mat.Row(nil, j, &x)
	}

	dc := f64.Sum(bank.Coeffs[0])
	if dc == 0 || math.IsNaN(dc) {
		return nil, fmt.Errorf("%w: zero DC gain", ErrInvalidResponse)
	}
	for _, row := range bank.Coeffs {
		f64.Scale(row, row, 1/dc)
	}

	return bank, nil
}

// Taps evaluates the impulse response at fractional time t into dst and
// returns it. dst is reallocated when shorter than the filter.
func (b *FarrowBank) Taps(dst []float64, t float64) []float64 {
	m := b.Params.FilterLength
	if len(dst) < m {
		dst = make([]float64, m)
	}
	dst = dst[:m]

	last := len(b.Coeffs) - 1
	copy(dst, b.Coeffs[last])
	for j := last - 1; j >= 0; j-- {
		row := b.Coeffs[j]
		for k := range dst {
			dst[k] = dst[k]*t + row[k]
		}
	}
	return dst
}

// MaxAbs returns the largest coefficient magnitude in the bank.
func (b *FarrowBank) MaxAbs() float64 {
	var peak float64
	for _, row := range b.Coeffs {
		for _, v := range row {
			peak = math.Max(peak, math.Abs(v))
		}
	}
	return peak
}
