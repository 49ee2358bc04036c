package asrc

import "github.com/tphakala/go-asrc/internal/fixed"

// clock tracks the conversion ratio and the fractional time position of the
// next output sample. ratio is fsPrim/fsSec and ratioInv its inverse, both
// in Q5.27; the nominal pair is kept for drift compensation.
//
// Push mode uses tv only. Pull mode steps tvp in output-sample units and
// derives tv from it whenever an input frame is consumed.
type clock struct {
	ratio, ratioInv     fixed.Q5_27
	nominal, nominalInv fixed.Q5_27

	tv, tvp fixed.Q5_27

	// Fixed control mode: frames seen in the current cycle and the
	// targets set by UpdateFsRatio.
	updated               bool
	prim, sec             int
	primTarget, secTarget int
}

func newClock(fsPrim, fsSec int) clock {
	r := fixed.Ratio5_27(int64(fsPrim), int64(fsSec))
	inv := fixed.Ratio5_27(int64(fsSec), int64(fsPrim))
	return clock{ratio: r, ratioInv: inv, nominal: r, nominalInv: inv}
}

func (k *clock) resetTime() {
	k.tv = 0
	k.tvp = 0
}

// reset returns the clock to its post-construction state, keeping the
// current ratio.
func (k *clock) reset() {
	k.resetTime()
	k.updated = false
	k.prim, k.sec = 0, 0
	k.primTarget, k.secTarget = 0, 0
}

// pushOutputDue reports whether the next output falls before the newest input.
func (k *clock) pushOutputDue() bool { return k.tv < fixed.One5_27 }

// pushEmitted advances the time base by one output sample.
func (k *clock) pushEmitted() { k.tv = k.tv.Add(k.ratio) }

// pushConsumed advances the time base by one input sample.
func (k *clock) pushConsumed() { k.tv = k.tv.Sub(fixed.One5_27) }

// pullInputDue reports whether another input frame is needed before the
// next output can be computed.
func (k *clock) pullInputDue() bool { return k.tvp < fixed.One5_27 }

// pullConsumed re-derives the filter time from the output-side position
// and advances that position by one input sample.
func (k *clock) pullConsumed() {
	k.tv = (fixed.One5_27 - k.tvp).Mul(k.ratioInv)
	k.tvp = k.tvp.Add(k.ratio)
}

// pullEmitted advances both time values by one output sample.
func (k *clock) pullEmitted() {
	k.tv = k.tv.Add(k.ratioInv)
	k.tvp = k.tvp.Sub(fixed.One5_27)
}

// arm starts a fixed-mode control cycle.
func (k *clock) arm(primFrames, secFrames int) {
	k.ratio = fixed.Ratio5_27(int64(primFrames), int64(secFrames)) + 1
	k.ratioInv = fixed.Ratio5_27(int64(secFrames), int64(primFrames)) + 1
	k.prim, k.sec = 0, 0
	k.primTarget, k.secTarget = primFrames, secFrames
	k.resetTime()
	k.updated = true
}

// cycleState is the outcome of accounting one call in fixed mode.
type cycleState int

const (
	cycleOpen cycleState = iota
	cycleClosed
	cycleMissedTarget
	cycleTimeResidual
)

// account adds the frames of one call to the fixed-mode counters and, once
// both targets are reached, checks the cycle closed cleanly. residual is
// the time value the operation mode must have drained.
func (k *clock) account(prim, sec int, residual fixed.Q5_27) cycleState {
	k.prim += prim
	k.sec += sec
	if k.prim < k.primTarget || k.sec < k.secTarget {
		return cycleOpen
	}
	if k.sec != k.secTarget {
		return cycleMissedTarget
	}
	if residual > timeValueLimit {
		return cycleTimeResidual
	}
	k.updated = false
	return cycleClosed
}
