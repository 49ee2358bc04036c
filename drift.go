package asrc

import (
	"fmt"

	"github.com/tphakala/go-asrc/internal/fixed"
)

// UpdateDrift corrects the conversion ratio for a measured clock skew, the
// ratio of the actual to the nominal secondary clock rate in Q2.30. It is
// valid in feedback control mode only. A skew outside [SkewMin, SkewMax]
// is rejected and the ratio is left unchanged.
func (c *Converter) UpdateDrift(skew fixed.Q2_30) error {
	if err := c.live(); err != nil {
		return err
	}
	if c.cfg.ControlMode != Feedback {
		return fmt.Errorf("%w: drift update in %v mode", ErrInvalidControlMode, c.cfg.ControlMode)
	}
	if skew < SkewMin {
		return fmt.Errorf("%w: %.6f", ErrInvalidClockSkew, skew.Float64())
	}
	c.clk.ratio = c.clk.nominal.Scale(skew)
	c.clk.ratioInv = c.clk.nominalInv.Unscale(skew)
	return nil
}

// UpdateFsRatio starts a fixed-mode control cycle in which exactly
// primFrames primary frames correspond to secFrames secondary frames. The
// time base is reset, so every cycle must be consumed completely before
// the next update.
func (c *Converter) UpdateFsRatio(primFrames, secFrames int) error {
	if err := c.live(); err != nil {
		return err
	}
	if c.cfg.ControlMode != Fixed {
		return fmt.Errorf("%w: ratio update in %v mode", ErrInvalidControlMode, c.cfg.ControlMode)
	}
	if primFrames < 1 || secFrames < 1 {
		return fmt.Errorf("%w: %d primary, %d secondary", ErrInvalidFrameSize, primFrames, secFrames)
	}

	// The implied skew must stay in range, as for UpdateDrift.
	ratio := fixed.Ratio5_27(int64(primFrames), int64(secFrames))
	skew := float64(ratio) / float64(c.clk.nominal)
	if skew < SkewMin.Float64() || skew >= 2 {
		return fmt.Errorf("%w: %d/%d frames against %d/%d Hz",
			ErrInvalidClockSkew, primFrames, secFrames, c.cfg.FsPrim, c.cfg.FsSec)
	}

	c.clk.arm(primFrames, secFrames)
	return nil
}

// SkewFromPPM converts a clock deviation in parts per million into a skew
// factor for UpdateDrift.
func SkewFromPPM(ppm float64) fixed.Q2_30 {
	return fixed.From2_30(1 + ppm/1e6)
}

// SkewFromFrames returns the skew observed when observed secondary frames
// arrived in the time expected frames were due.
func SkewFromFrames(expected, observed int) (fixed.Q2_30, error) {
	if expected < 1 || observed < 1 {
		return 0, fmt.Errorf("%w: %d expected, %d observed", ErrInvalidFrameSize, expected, observed)
	}
	f := float64(observed) / float64(expected)
	if f < SkewMin.Float64() || f >= 2 {
		return 0, fmt.Errorf("%w: %.6f", ErrInvalidClockSkew, f)
	}
	return fixed.From2_30(f), nil
}
