// Package testutil provides reusable test helpers for the converter tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/simd/f64"
)

// DCGainTolerance is the DC gain error allowed for a normalised bank at t = 0.
const DCGainTolerance = 1e-6

// AssertNoNaNOrInf verifies that every tap is finite.
func AssertNoNaNOrInf(t *testing.T, taps []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range taps {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Fail(t, "found NaN or Inf", "taps[%d] = %v", i, v)
		}
	}
	return true
}

// AssertDCGain verifies that the taps sum to the expected DC gain.
func AssertDCGain(t *testing.T, taps []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	sum := f64.Sum(taps)
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}

// AssertPeakAt verifies that no tap is larger than taps[idx].
func AssertPeakAt(t *testing.T, taps []float64, idx int) bool {
	t.Helper()
	if idx < 0 || idx >= len(taps) {
		return assert.Fail(t, "peak index out of range", "idx %d, %d taps", idx, len(taps))
	}
	for i, v := range taps {
		if v > taps[idx] {
			return assert.Fail(t, "peak is not at the expected tap",
				"taps[%d]=%f > taps[%d]=%f", i, v, idx, taps[idx])
		}
	}
	return true
}

// AssertRelativeError verifies that |actual-expected|/|expected| is within
// tolerance, falling back to an absolute check when expected is zero.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// AssertInRange verifies that value lies in [minVal, maxVal].
func AssertInRange(t *testing.T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, "value out of range",
			"value %f is outside range [%f, %f]", value, minVal, maxVal)
	}
	return true
}
