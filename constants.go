package asrc

import (
	"math"
	"slices"

	"github.com/tphakala/go-asrc/internal/filter"
	"github.com/tphakala/go-asrc/internal/fixed"
)

// Channel and buffer limits.
const (
	maxChannels = 256 // Maximum supported channel count

	// MinBufferLength is the shortest secondary-side buffer in frames.
	MinBufferLength = 2

	// MaxFilterLength is the longest Farrow filter any conversion uses.
	MaxFilterLength = filter.MaxFilterLength

	// delayLineFactor sizes the default delay line relative to the filter.
	delayLineFactor = 2

	// MaxDelayLineLength is the longest delay line a converter allocates.
	MaxDelayLineLength = delayLineFactor * MaxFilterLength
)

// Supported sample depths.
const (
	bitDepth16 = 16
	bitDepth32 = 32
)

// Clock skew limits in Q2.30.
const (
	// SkewMin is the smallest accepted skew factor, 0.5.
	SkewMin fixed.Q2_30 = fixed.One2_30 / 2

	// SkewMax is the largest accepted skew factor, just below 2.0.
	SkewMax fixed.Q2_30 = math.MaxInt32
)

// timeValueLimit is the largest residual time a fixed-mode control cycle
// may end with: 0.0001 in Q5.27.
const timeValueLimit fixed.Q5_27 = 13422

// Memory accounting used by RequiredSize.
const (
	instanceOverheadBytes = 256
	tapBytes              = 4
	sliceHeaderBytes      = 24
)

// supportedRates lists every accepted sample rate in Hz.
var supportedRates = []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000}

// SupportedRates returns the accepted sample rates in ascending order.
func SupportedRates() []int { return slices.Clone(supportedRates) }

// IsSupportedRate reports whether rate is an accepted sample rate.
func IsSupportedRate(rate int) bool { return slices.Contains(supportedRates, rate) }
