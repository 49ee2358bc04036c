package farrow

import "github.com/tphakala/go-asrc/internal/fixed"

// Kernel generates impulse responses and runs the FIR convolution.
//
// Implementations must produce bit-identical results; Scalar is the
// reference the others are tested against.
type Kernel interface {
	// Name identifies the backend.
	Name() string

	// ImpulseResponse evaluates every tap polynomial of tbl at t into
	// dst[:tbl.FilterLength] using Horner's method.
	ImpulseResponse(dst []int32, tbl *Table, t fixed.Q1_31)

	// FIR16 convolves Q1.30 taps with a Q1.15 window ordered oldest
	// first; h[0] multiplies the newest sample.
	FIR16(h []int32, window []int16) int16

	// FIR32 convolves Q1.30 taps with a Q1.31 window ordered oldest
	// first; h[0] multiplies the newest sample.
	FIR32(h []int32, window []int32) int32
}

// Fixed-point shifts of the convolution paths.
const (
	hornerShift = fixed.FracBits1_31

	// fir16AccShift takes the Q.45 accumulator to Q.31.
	fir16AccShift = 45 - 31
	// fir16OutShift takes Q1.31 to Q1.15 with rounding.
	fir16OutShift = 31 - 15

	// fir32TapShift drops tap precision to Q1.22 so up to 256 taps
	// accumulate without overflow.
	fir32TapShift = 8
	// fir32AccShift takes the Q.53 accumulator to Q1.31.
	fir32AccShift = 53 - 31
)

// mac returns g + acc·t, the Horner step shared by every evaluator.
func mac(g, acc, t int32) int32 {
	return fixed.AddSat32(g, fixed.MulShiftRoundSat(acc, t, hornerShift))
}

func finish16(acc int64) int16 {
	p32 := fixed.SatInt32(acc >> fir16AccShift)
	return fixed.SatInt16(int32(fixed.ShiftRound(int64(p32), fir16OutShift)))
}

func finish32(acc int64) int32 {
	return fixed.SatInt32(acc >> fir32AccShift)
}
