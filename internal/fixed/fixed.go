// Package fixed implements the fixed-point formats used on the converter's
// sample path.
//
// Each Q-format is its own type, so a value cannot silently change format:
// conversions are explicit methods and every multiply names its shift.
// All arithmetic saturates at the limits of the destination type.
package fixed

import "math"

// Fractional bit counts of the supported formats.
const (
	FracBits5_27 = 27
	FracBits2_30 = 30
	FracBits1_31 = 31
)

// Q5_27 is an unsigned fixed-point value with 5 integer and 27 fractional
// bits. It carries conversion ratios and fractional time positions.
type Q5_27 uint32

// Q2_30 is a signed fixed-point value with 2 integer and 30 fractional bits.
// It carries clock skew factors and filter coefficients.
type Q2_30 int32

// Q1_31 is a signed fixed-point value with 1 integer and 31 fractional bits.
type Q1_31 int32

// One5_27 is 1.0 in Q5.27.
const One5_27 Q5_27 = 1 << FracBits5_27

// One2_30 is 1.0 in Q2.30.
const One2_30 Q2_30 = 1 << FracBits2_30

// Ratio5_27 returns num/den in Q5.27, truncated toward zero. A zero or
// negative operand yields 0, which callers treat as an invalid ratio.
func Ratio5_27(num, den int64) Q5_27 {
	if num <= 0 || den <= 0 {
		return 0
	}
	return satU32(uint64(num) << FracBits5_27 / uint64(den))
}

// From5_27 converts a float to Q5.27 with rounding and saturation.
func From5_27(f float64) Q5_27 {
	if f <= 0 {
		return 0
	}
	v := math.Round(f * float64(One5_27))
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return Q5_27(v)
}

// Float64 returns the value as a float.
func (q Q5_27) Float64() float64 { return float64(q) / float64(One5_27) }

// Add returns q+o, saturating at the largest representable value.
func (q Q5_27) Add(o Q5_27) Q5_27 { return satU32(uint64(q) + uint64(o)) }

// Sub returns q-o, saturating at zero.
func (q Q5_27) Sub(o Q5_27) Q5_27 {
	if o > q {
		return 0
	}
	return q - o
}

// Mul returns q*o in Q5.27.
func (q Q5_27) Mul(o Q5_27) Q5_27 {
	return satU32(uint64(q) * uint64(o) >> FracBits5_27)
}

// Scale returns q multiplied by a Q2.30 factor. Negative factors yield 0.
func (q Q5_27) Scale(s Q2_30) Q5_27 {
	if s <= 0 {
		return 0
	}
	return satU32(uint64(q) * uint64(s) >> FracBits2_30)
}

// Unscale returns q divided by a Q2.30 factor, using the 27-bit divisor
// s>>3 so the quotient stays in Q5.27. Factors below 2^-27 yield the
// saturated maximum.
func (q Q5_27) Unscale(s Q2_30) Q5_27 {
	d := uint64(s) >> (FracBits2_30 - FracBits5_27)
	if s <= 0 || d == 0 {
		return math.MaxUint32
	}
	return satU32(uint64(q) << FracBits5_27 / d)
}

// Q1_31 converts a fractional time position to Q1.31. Values at or above
// 1.0 saturate just below it.
func (q Q5_27) Q1_31() Q1_31 {
	return Q1_31(SatInt32(int64(q) << (FracBits1_31 - FracBits5_27)))
}

// From2_30 converts a float to Q2.30 with rounding and saturation.
func From2_30(f float64) Q2_30 {
	return Q2_30(SatInt32(int64(math.Round(clampF(f*float64(One2_30))))))
}

// Float64 returns the value as a float.
func (q Q2_30) Float64() float64 { return float64(q) / float64(One2_30) }

// Float64 returns the value as a float.
func (q Q1_31) Float64() float64 { return float64(q) / (1 << FracBits1_31) }

// SatInt32 clamps x to the int32 range.
func SatInt32(x int64) int32 {
	if x > math.MaxInt32 {
		return math.MaxInt32
	}
	if x < math.MinInt32 {
		return math.MinInt32
	}
	return int32(x)
}

// SatInt16 clamps x to the int16 range.
func SatInt16(x int32) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}

// AddSat32 returns a+b clamped to the int32 range.
func AddSat32(a, b int32) int32 { return SatInt32(int64(a) + int64(b)) }

// MulShiftRoundSat multiplies x and y in 64 bits, shifts the product right
// by shift with round-half-up, and saturates to int32. shift must be >= 1.
func MulShiftRoundSat(x, y int32, shift uint) int32 {
	return SatInt32(ShiftRound(int64(x)*int64(y), shift))
}

// ShiftRound shifts x right by shift bits, rounding half up. shift must be >= 1.
func ShiftRound(x int64, shift uint) int64 {
	return ((x >> (shift - 1)) + 1) >> 1
}

func satU32(v uint64) Q5_27 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return Q5_27(v)
}

func clampF(f float64) float64 {
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return f
}
