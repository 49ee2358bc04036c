package farrow

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-asrc/internal/filter"
	"github.com/tphakala/go-asrc/internal/fixed"
)

var kernels = []Kernel{Scalar, Paired}

// coefficientBound keeps every Horner partial sum of a 7-term polynomial
// inside int32, so the saturating steps never clip.
const coefficientBound = 1 << 28

func randomTable(t *testing.T, rng *rand.Rand, n, m int) (*Table, [][]int32) {
	t.Helper()
	coeffs := make([][]int32, n)
	for j := range coeffs {
		coeffs[j] = make([]int32, m)
		for k := range coeffs[j] {
			coeffs[j][k] = int32(rng.IntN(2*coefficientBound+1) - coefficientBound)
		}
	}
	tbl, err := NewTable(coeffs)
	require.NoError(t, err)
	return tbl, coeffs
}

// direct evaluates Σ g_j·t^j in float64 without Horner's rule.
func direct(coeffs [][]int32, k int, t fixed.Q1_31) float64 {
	tf := t.Float64()
	var sum float64
	for j := range coeffs {
		sum += float64(coeffs[j][k]) * math.Pow(tf, float64(j))
	}
	return sum
}

func timeValues(rng *rand.Rand) []fixed.Q1_31 {
	ts := []fixed.Q1_31{0, 1, 1 << 30, math.MaxInt32}
	for range 60 {
		ts = append(ts, fixed.Q1_31(rng.Int32()))
	}
	// Time positions as the converter produces them.
	for tv := fixed.Q5_27(0); tv < fixed.One5_27; tv += fixed.One5_27 / 37 {
		ts = append(ts, tv.Q1_31())
	}
	return ts
}

func TestImpulseResponse_MatchesDirectEvaluation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const taps = 32

	for _, k := range kernels {
		for n := filter.MinNumFilters; n <= filter.MaxNumFilters; n++ {
			t.Run(fmt.Sprintf("%s/N%d", k.Name(), n), func(t *testing.T) {
				tbl, coeffs := randomTable(t, rng, n, taps)
				dst := make([]int32, taps)

				// Each Horner step rounds to within half an LSB and later
				// steps scale that error by t < 1.
				maxErr := 0.5 * float64(n-1)
				var sumErr float64
				var count int
				for _, tv := range timeValues(rng) {
					k.ImpulseResponse(dst, tbl, tv)
					for m := range taps {
						e := math.Abs(float64(dst[m]) - direct(coeffs, m, tv))
						require.LessOrEqual(t, e, maxErr+1e-3, "tap %d at t=%d", m, tv)
						sumErr += e
						count++
					}
				}
				assert.LessOrEqual(t, sumErr/float64(count), 1.0, "mean error above one LSB")
			})
		}
	}
}

func TestImpulseResponse_ConstantPolynomial(t *testing.T) {
	coeffs := make([][]int32, 4)
	for j := range coeffs {
		coeffs[j] = make([]int32, 8)
	}
	for k := range coeffs[0] {
		coeffs[0][k] = int32(k * 1000)
	}
	tbl, err := NewTable(coeffs)
	require.NoError(t, err)

	for _, k := range kernels {
		dst := make([]int32, 8)
		k.ImpulseResponse(dst, tbl, math.MaxInt32)
		assert.Equal(t, coeffs[0], dst, k.Name())
	}
}

func TestPairedMatchesScalar_DesignedTables(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for _, d := range Designs() {
		t.Run(d.Name, func(t *testing.T) {
			tbl, err := Load(d)
			require.NoError(t, err)

			want := make([]int32, tbl.FilterLength)
			got := make([]int32, tbl.FilterLength)
			w16 := make([]int16, tbl.FilterLength)
			w32 := make([]int32, tbl.FilterLength)
			for range 50 {
				tv := fixed.Q1_31(rng.Int32())
				Scalar.ImpulseResponse(want, tbl, tv)
				Paired.ImpulseResponse(got, tbl, tv)
				require.Equal(t, want, got)

				for i := range w32 {
					w32[i] = rng.Int32() - math.MaxInt32/2
					w16[i] = int16(rng.IntN(1<<16) - 1<<15)
				}
				require.Equal(t, Scalar.FIR32(want, w32), Paired.FIR32(want, w32))
				require.Equal(t, Scalar.FIR16(want, w16), Paired.FIR16(want, w16))
			}
		})
	}
}

func TestFIR_UnitImpulse(t *testing.T) {
	const taps = 8
	window32 := []int32{-7, 100, -2000, 30000, math.MinInt32, 5, math.MaxInt32, -123456}
	window16 := []int16{-7, 100, -2000, 30000, math.MinInt16, 5, math.MaxInt16, -12345}

	for _, k := range kernels {
		for delay := range taps {
			h := make([]int32, taps)
			h[delay] = 1 << 30

			assert.Equal(t, window32[taps-1-delay], k.FIR32(h, window32), "%s delay %d", k.Name(), delay)
			assert.Equal(t, window16[taps-1-delay], k.FIR16(h, window16), "%s delay %d", k.Name(), delay)
		}
	}
}

func TestFIR_Saturates(t *testing.T) {
	h := []int32{1 << 30, 1 << 30, 1 << 30, 1 << 30}

	for _, k := range kernels {
		assert.Equal(t, int32(math.MaxInt32), k.FIR32(h, []int32{math.MaxInt32, math.MaxInt32, math.MaxInt32, math.MaxInt32}))
		assert.Equal(t, int32(math.MinInt32), k.FIR32(h, []int32{math.MinInt32, math.MinInt32, math.MinInt32, math.MinInt32}))
		assert.Equal(t, int16(math.MaxInt16), k.FIR16(h, []int16{math.MaxInt16, math.MaxInt16, math.MaxInt16, math.MaxInt16}))
		assert.Equal(t, int16(math.MinInt16), k.FIR16(h, []int16{math.MinInt16, math.MinInt16, math.MinInt16, math.MinInt16}))
	}
}

func TestFIR_HalfGainRounds(t *testing.T) {
	h := []int32{1 << 29, 0, 0, 0}

	for _, k := range kernels {
		assert.Equal(t, int16(2), k.FIR16(h, []int16{0, 0, 0, 3}), "1.5 rounds up")
		assert.Equal(t, int16(-1), k.FIR16(h, []int16{0, 0, 0, -3}), "-1.5 rounds up")
		assert.Equal(t, int32(1), k.FIR32(h, []int32{0, 0, 0, 3}), "32-bit path truncates")
	}
}

func TestDefaultKernel(t *testing.T) {
	assert.Contains(t, []string{Scalar.Name(), Paired.Name()}, Default().Name())
}

func BenchmarkImpulseResponse(b *testing.B) {
	tbl, err := LoadFor(48000, 44100)
	require.NoError(b, err)
	dst := make([]int32, tbl.FilterLength)

	for _, k := range kernels {
		b.Run(k.Name(), func(b *testing.B) {
			for b.Loop() {
				k.ImpulseResponse(dst, tbl, 1<<30)
			}
		})
	}
}

func BenchmarkFIR32(b *testing.B) {
	h := make([]int32, 64)
	w := make([]int32, 64)
	for i := range h {
		h[i] = int32(i) << 20
		w[i] = int32(i) << 24
	}

	for _, k := range kernels {
		b.Run(k.Name(), func(b *testing.B) {
			for b.Loop() {
				_ = k.FIR32(h, w)
			}
		})
	}
}
