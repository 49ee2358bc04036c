package farrow

import "github.com/tphakala/go-asrc/internal/fixed"

type scalar struct{}

// Scalar is the portable reference kernel: one tap and one product at a time.
var Scalar Kernel = scalar{}

func (scalar) Name() string { return "scalar" }

func (scalar) ImpulseResponse(dst []int32, tbl *Table, t fixed.Q1_31) {
	top := tbl.NumFilters - 1
	for k := range tbl.FilterLength {
		acc := tbl.Coeff(top, k)
		for j := top - 1; j >= 0; j-- {
			acc = mac(tbl.Coeff(j, k), acc, int32(t))
		}
		dst[k] = acc
	}
}

func (scalar) FIR16(h []int32, window []int16) int16 {
	last := len(window) - 1
	var acc int64
	for k, c := range h {
		acc += int64(window[last-k]) * int64(c)
	}
	return finish16(acc)
}

func (scalar) FIR32(h []int32, window []int32) int32 {
	last := len(window) - 1
	var acc int64
	for k, c := range h {
		acc += int64(window[last-k]) * int64(c>>fir32TapShift)
	}
	return finish32(acc)
}
