// Package mathutil provides the special functions used by the Farrow
// filter design.
package mathutil

import "math"

const (
	// besselEpsilon stops the I0 series once a term no longer changes the sum.
	besselEpsilon = 1e-17

	// besselMaxTerms bounds the series for very large arguments.
	besselMaxTerms = 500
)

// BesselI0 computes the modified Bessel function of the first kind, order
// zero, by summing its power series
//
//	I0(x) = Σ ((x/2)^k / k!)²
//
// The series converges for every x and reaches full float64 precision for
// the Kaiser beta values used in audio filter design (|x| < 30).
func BesselI0(x float64) float64 {
	half := x / 2
	sum := 1.0
	term := 1.0
	for k := 1; k < besselMaxTerms; k++ {
		f := half / float64(k)
		term *= f * f
		sum += term
		if term < sum*besselEpsilon {
			break
		}
	}
	return sum
}

// Kaiser evaluates the continuous Kaiser window at x in [-1, 1]:
//
//	w(x) = I0(β·sqrt(1 - x²)) / I0(β)
//
// The window is zero outside that interval.
func Kaiser(x, beta float64) float64 {
	if x < -1 || x > 1 {
		return 0
	}
	return BesselI0(beta*math.Sqrt(1-x*x)) / BesselI0(beta)
}
