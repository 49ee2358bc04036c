// Command asrc-filters analyses the Farrow filter tables used by the ASRC.
//
// For every conversion class it designs the floating-point bank, quantises
// it to Q2.30 and reports the DC gain, the stopband level and the
// fractional delay error of both, at a handful of time offsets.
//
// Usage:
//
//	asrc-filters
//	asrc-filters -design 48000-44100 -att 90
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/tphakala/go-asrc/internal/farrow"
	"github.com/tphakala/go-asrc/internal/filter"
	"github.com/tphakala/go-asrc/internal/fixed"
	"github.com/tphakala/go-asrc/internal/mathutil"
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

const (
	defaultFFTSize = 8192

	// Offset steps across [0, 1) for the per-t report.
	timeSteps = 8

	// Fraction of the passband edge over which the delay error is measured.
	delayBand = 0.9
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	name := flag.String("design", "", "Only analyse the named conversion class (e.g. 48000-44100, upsample)")
	att := flag.Float64("att", 0, "Redesign with the Kaiser beta for this stopband attenuation in dB (0 keeps the table beta)")
	fftSize := flag.Int("fft", defaultFFTSize, "FFT size for the frequency response")
	flag.Parse()

	fmt.Println("=== Analyzing Farrow Filter Tables ===")
	fmt.Printf("CPU: %s\n", cpu.Info())

	found := false
	for _, d := range farrow.Designs() {
		if *name != "" && !strings.EqualFold(d.Name, *name) {
			continue
		}
		found = true

		if *att > 0 {
			d.Name += fmt.Sprintf(" (%.0f dB)", *att)
			d.Params.Beta = mathutil.KaiserBeta(*att)
		}
		report, err := analyse(d, *fftSize)
		if err != nil {
			return err
		}
		report.print()
	}
	if !found {
		return fmt.Errorf("unknown design %q", *name)
	}
	return nil
}

// offsetReport holds measurements at one fractional time offset.
type offsetReport struct {
	t              float64
	dcFloat        float64
	dcFixed        float64
	stopbandFloat  float64
	stopbandFixed  float64
	delayErrFloat  float64
	delayErrFixed  float64
	maxQuantiseErr float64
}

type designReport struct {
	design    farrow.Design
	predicted float64
	maxCoeff  float64
	offsets   []offsetReport
}

func analyse(d farrow.Design, fftSize int) (*designReport, error) {
	p := d.Params
	bank, err := filter.DesignFarrow(p)
	if err != nil {
		return nil, fmt.Errorf("design %s: %w", d.Name, err)
	}
	tbl, err := farrow.Quantize(bank)
	if err != nil {
		return nil, fmt.Errorf("quantize %s: %w", d.Name, err)
	}

	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	stopEdge := (1 - p.Cutoff) * scale
	passEdge := p.CutoffCycles() * delayBand

	report := &designReport{
		design:    d,
		predicted: mathutil.KaiserAttenuation(p.Beta),
		maxCoeff:  bank.MaxAbs(),
	}

	taps := make([]float64, p.FilterLength)
	fixedTaps := make([]int32, p.FilterLength)
	quantised := make([]float64, p.FilterLength)

	for i := range timeSteps {
		t := float64(i) / timeSteps
		taps = bank.Taps(taps, t)

		farrow.Scalar.ImpulseResponse(fixedTaps, tbl, fixed.Q1_31(int32(t*(1<<fixed.FracBits1_31))))
		for k, v := range fixedTaps {
			quantised[k] = fixed.Q2_30(v).Float64()
		}

		// Tap k sits at k + t - M/2 on the prototype, so the group delay
		// seen from tap 0 is M/2 - t.
		delay := float64(p.FilterLength)/2 - t
		report.offsets = append(report.offsets, offsetReport{
			t:              t,
			dcFloat:        f64.Sum(taps),
			dcFixed:        f64.Sum(quantised),
			stopbandFloat:  filter.StopbandLevel(taps, stopEdge, fftSize),
			stopbandFixed:  filter.StopbandLevel(quantised, stopEdge, fftSize),
			delayErrFloat:  filter.DelayError(taps, delay, passEdge, fftSize),
			delayErrFixed:  filter.DelayError(quantised, delay, passEdge, fftSize),
			maxQuantiseErr: maxAbsDiff(quantised, taps),
		})
	}
	return report, nil
}

func maxAbsDiff(a, b []float64) float64 {
	var peak float64
	for i := range a {
		peak = math.Max(peak, math.Abs(a[i]-b[i]))
	}
	return peak
}

func (r *designReport) print() {
	p := r.design.Params
	fmt.Printf("\n=== %s ===\n", r.design.Name)
	fmt.Printf("  Polynomials: %d, Taps: %d, Beta: %.3f\n", p.NumFilters, p.FilterLength, p.Beta)
	fmt.Printf("  Cutoff: %.4f of lower rate (%.4f cycles/input sample)\n", p.Cutoff, p.CutoffCycles())
	fmt.Printf("  Predicted stopband: -%.1f dB\n", r.predicted)
	fmt.Printf("  Largest coefficient: %.6f\n", r.maxCoeff)
	fmt.Println("       t   DC float   DC fixed  stop float  stop fixed  delay float  delay fixed   max quant")
	for _, o := range r.offsets {
		fmt.Printf("  %6.3f  %9.6f  %9.6f  %10.1f  %10.1f  %11.1f  %11.1f  %10.3g\n",
			o.t, o.dcFloat, o.dcFixed, o.stopbandFloat, o.stopbandFixed,
			o.delayErrFloat, o.delayErrFixed, o.maxQuantiseErr)
	}
}
