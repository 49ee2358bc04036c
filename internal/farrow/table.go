// Package farrow evaluates Farrow filters in fixed point: it owns the
// quantised coefficient tables, the per-conversion table registry and the
// kernels that turn a fractional time into FIR taps and taps into samples.
package farrow

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-asrc/internal/filter"
	"github.com/tphakala/go-asrc/internal/fixed"
)

// ErrCoefficientRange reports a designed coefficient that does not fit Q2.30.
var ErrCoefficientRange = errors.New("farrow: coefficient outside Q2.30 range")

// maxCoefficient is the largest magnitude Quantize accepts.
const maxCoefficient = 2.0

// Table is an immutable Farrow coefficient table in Q2.30.
//
// Coefficients are grouped by tap pair so that two taps can be evaluated
// side by side. For taps m and m+1 the block is
//
//	g(N-1,m) g(N-1,m+1) g(N-2,m) g(N-2,m+1) ... g(0,m) g(0,m+1)
//
// where g(j,k) multiplies t^j for tap k. Blocks follow in tap order.
type Table struct {
	NumFilters   int
	FilterLength int
	Coeffs       []int32
}

// Validate checks the table shape.
func (t *Table) Validate() error {
	if t.NumFilters < filter.MinNumFilters || t.NumFilters > filter.MaxNumFilters {
		return fmt.Errorf("%w: %d", filter.ErrInvalidOrder, t.NumFilters)
	}
	if t.FilterLength < filter.FilterLengthAlign || t.FilterLength > filter.MaxFilterLength ||
		t.FilterLength%filter.FilterLengthAlign != 0 {
		return fmt.Errorf("%w: %d taps", filter.ErrInvalidLength, t.FilterLength)
	}
	if len(t.Coeffs) != t.NumFilters*t.FilterLength {
		return fmt.Errorf("%w: %d coefficients for %dx%d", filter.ErrInvalidLength,
			len(t.Coeffs), t.NumFilters, t.FilterLength)
	}
	return nil
}

// index returns the position of g(j,k) in Coeffs.
func (t *Table) index(j, k int) int {
	return (k/2)*2*t.NumFilters + 2*(t.NumFilters-1-j) + k%2
}

// Coeff returns g(j,k).
func (t *Table) Coeff(j, k int) int32 { return t.Coeffs[t.index(j, k)] }

// NewTable builds a table from coefficients indexed as coeffs[j][k].
func NewTable(coeffs [][]int32) (*Table, error) {
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: empty table", filter.ErrInvalidOrder)
	}
	t := &Table{NumFilters: len(coeffs), FilterLength: len(coeffs[0])}
	t.Coeffs = make([]int32, t.NumFilters*t.FilterLength)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	for j, row := range coeffs {
		if len(row) != t.FilterLength {
			return nil, fmt.Errorf("%w: row %d has %d taps", filter.ErrInvalidLength, j, len(row))
		}
		for k, v := range row {
			t.Coeffs[t.index(j, k)] = v
		}
	}
	return t, nil
}

// Quantize converts a designed bank to Q2.30.
func Quantize(bank *filter.FarrowBank) (*Table, error) {
	if peak := bank.MaxAbs(); peak >= maxCoefficient {
		return nil, fmt.Errorf("%w: peak %f", ErrCoefficientRange, peak)
	}
	coeffs := make([][]int32, len(bank.Coeffs))
	for j, row := range bank.Coeffs {
		coeffs[j] = make([]int32, len(row))
		for k, v := range row {
			coeffs[j][k] = int32(fixed.From2_30(v))
		}
	}
	return NewTable(coeffs)
}
