package farrow

import "github.com/tphakala/go-asrc/internal/fixed"

type paired struct{}

// Paired evaluates two taps per step with one evaluator per polynomial
// order, walking the tap-pair table layout linearly. Its FIR keeps one
// accumulator per lane.
var Paired Kernel = paired{}

func (paired) Name() string { return "paired" }

func (paired) ImpulseResponse(dst []int32, tbl *Table, t fixed.Q1_31) {
	dst = dst[:tbl.FilterLength]
	switch tbl.NumFilters {
	case 4:
		impulseN4(dst, tbl.Coeffs, int32(t))
	case 5:
		impulseN5(dst, tbl.Coeffs, int32(t))
	case 6:
		impulseN6(dst, tbl.Coeffs, int32(t))
	case 7:
		impulseN7(dst, tbl.Coeffs, int32(t))
	default:
		Scalar.ImpulseResponse(dst, tbl, t)
	}
}

func impulseN4(dst, g []int32, t int32) {
	for i := 0; i < len(dst); i += 2 {
		c := g[i*4 : i*4+8]
		lo, hi := c[0], c[1]
		lo, hi = mac(c[2], lo, t), mac(c[3], hi, t)
		lo, hi = mac(c[4], lo, t), mac(c[5], hi, t)
		dst[i], dst[i+1] = mac(c[6], lo, t), mac(c[7], hi, t)
	}
}

func impulseN5(dst, g []int32, t int32) {
	for i := 0; i < len(dst); i += 2 {
		c := g[i*5 : i*5+10]
		lo, hi := c[0], c[1]
		lo, hi = mac(c[2], lo, t), mac(c[3], hi, t)
		lo, hi = mac(c[4], lo, t), mac(c[5], hi, t)
		lo, hi = mac(c[6], lo, t), mac(c[7], hi, t)
		dst[i], dst[i+1] = mac(c[8], lo, t), mac(c[9], hi, t)
	}
}

func impulseN6(dst, g []int32, t int32) {
	for i := 0; i < len(dst); i += 2 {
		c := g[i*6 : i*6+12]
		lo, hi := c[0], c[1]
		lo, hi = mac(c[2], lo, t), mac(c[3], hi, t)
		lo, hi = mac(c[4], lo, t), mac(c[5], hi, t)
		lo, hi = mac(c[6], lo, t), mac(c[7], hi, t)
		lo, hi = mac(c[8], lo, t), mac(c[9], hi, t)
		dst[i], dst[i+1] = mac(c[10], lo, t), mac(c[11], hi, t)
	}
}

func impulseN7(dst, g []int32, t int32) {
	for i := 0; i < len(dst); i += 2 {
		c := g[i*7 : i*7+14]
		lo, hi := c[0], c[1]
		lo, hi = mac(c[2], lo, t), mac(c[3], hi, t)
		lo, hi = mac(c[4], lo, t), mac(c[5], hi, t)
		lo, hi = mac(c[6], lo, t), mac(c[7], hi, t)
		lo, hi = mac(c[8], lo, t), mac(c[9], hi, t)
		lo, hi = mac(c[10], lo, t), mac(c[11], hi, t)
		dst[i], dst[i+1] = mac(c[12], lo, t), mac(c[13], hi, t)
	}
}

func (paired) FIR16(h []int32, window []int16) int16 {
	last := len(window) - 1
	var even, odd int64
	for k := 0; k+1 < len(h); k += 2 {
		even += int64(window[last-k]) * int64(h[k])
		odd += int64(window[last-k-1]) * int64(h[k+1])
	}
	return finish16(even + odd)
}

func (paired) FIR32(h []int32, window []int32) int32 {
	last := len(window) - 1
	var even, odd int64
	for k := 0; k+1 < len(h); k += 2 {
		even += int64(window[last-k]) * int64(h[k]>>fir32TapShift)
		odd += int64(window[last-k-1]) * int64(h[k+1]>>fir32TapShift)
	}
	return finish32(even + odd)
}
