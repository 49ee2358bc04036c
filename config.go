package asrc

import (
	"fmt"

	"github.com/tphakala/go-asrc/internal/farrow"
	"github.com/tphakala/go-asrc/internal/fixed"
)

// IOFormat selects how multi-channel frames are laid out in memory.
type IOFormat int

const (
	// Deinterleaved buffers hold one slice per channel.
	Deinterleaved IOFormat = iota

	// Interleaved buffers hold one slice with the channels of a frame adjacent.
	Interleaved
)

func (f IOFormat) String() string {
	switch f {
	case Deinterleaved:
		return "deinterleaved"
	case Interleaved:
		return "interleaved"
	}
	return fmt.Sprintf("IOFormat(%d)", int(f))
}

// BufferMode selects how the secondary-side buffer is addressed.
type BufferMode int

const (
	// Circular buffers wrap at BufferLength and are tracked by Indices.
	Circular BufferMode = iota

	// Linear buffers are filled or drained from index 0 on every call.
	Linear
)

func (m BufferMode) String() string {
	switch m {
	case Circular:
		return "circular"
	case Linear:
		return "linear"
	}
	return fmt.Sprintf("BufferMode(%d)", int(m))
}

// ControlMode selects how the conversion ratio is steered at run time.
type ControlMode int

const (
	// Feedback mode adjusts the ratio from a measured clock skew (UpdateDrift).
	Feedback ControlMode = iota

	// Fixed mode sets an exact frame count per control cycle (UpdateFsRatio).
	Fixed
)

func (m ControlMode) String() string {
	switch m {
	case Feedback:
		return "feedback"
	case Fixed:
		return "fixed"
	}
	return fmt.Sprintf("ControlMode(%d)", int(m))
}

// OperationMode selects which side of the conversion the caller drives.
type OperationMode int

const (
	// Push consumes a fixed number of primary frames per call and writes
	// as many secondary frames as the time base yields.
	Push OperationMode = iota

	// Pull produces a fixed number of primary frames per call and reads
	// as many secondary frames as the time base needs.
	Pull
)

func (m OperationMode) String() string {
	switch m {
	case Push:
		return "push"
	case Pull:
		return "pull"
	}
	return fmt.Sprintf("OperationMode(%d)", int(m))
}

// Config holds converter configuration.
type Config struct {
	// NumChannels is the number of audio channels, processed in lockstep.
	NumChannels int

	// FsPrim is the sample rate of the primary (linear) side in Hz.
	FsPrim int

	// FsSec is the sample rate of the secondary (buffered) side in Hz.
	FsSec int

	// InputFormat and OutputFormat select the layout of each side.
	InputFormat  IOFormat
	OutputFormat IOFormat

	// BufferMode selects circular or linear addressing of the secondary buffer.
	BufferMode BufferMode

	// BufferLength is the secondary buffer length in frames.
	BufferLength int

	// BitDepth is 16 or 32.
	BitDepth int

	ControlMode   ControlMode
	OperationMode OperationMode

	// DelayLineLength is the per-channel history in frames. Zero selects
	// twice the filter length.
	DelayLineLength int

	// Backend selects the kernel implementation.
	Backend Backend
}

// Validate checks the configuration without allocating anything.
func (c *Config) Validate() error {
	if c.NumChannels < 1 || c.NumChannels > maxChannels {
		return fmt.Errorf("%w: %d", ErrInvalidNumChannels, c.NumChannels)
	}
	if !IsSupportedRate(c.FsPrim) {
		return fmt.Errorf("%w: primary %d Hz", ErrInvalidSampleRate, c.FsPrim)
	}
	if !IsSupportedRate(c.FsSec) {
		return fmt.Errorf("%w: secondary %d Hz", ErrInvalidSampleRate, c.FsSec)
	}
	if c.BufferLength < MinBufferLength {
		return fmt.Errorf("%w: %d frames", ErrInvalidBufferLength, c.BufferLength)
	}
	if c.DelayLineLength < 0 || c.DelayLineLength > MaxDelayLineLength {
		return fmt.Errorf("%w: delay line %d frames", ErrInvalidBufferLength, c.DelayLineLength)
	}
	if err := validBitDepth(c.BitDepth); err != nil {
		return err
	}

	switch {
	case c.ControlMode != Feedback && c.ControlMode != Fixed:
		return fmt.Errorf("%w: %v", ErrInvalidControlMode, c.ControlMode)
	case c.OperationMode != Push && c.OperationMode != Pull:
		return fmt.Errorf("%w: %v", ErrInvalidControlMode, c.OperationMode)
	case !validFormat(c.InputFormat) || !validFormat(c.OutputFormat):
		return fmt.Errorf("%w: format %v/%v", ErrInvalidBufferPointer, c.InputFormat, c.OutputFormat)
	case c.BufferMode != Circular && c.BufferMode != Linear:
		return fmt.Errorf("%w: %v", ErrInvalidBufferPointer, c.BufferMode)
	case !c.Backend.valid():
		return fmt.Errorf("%w: backend %v", ErrInitFailed, c.Backend)
	}

	if fixed.Ratio5_27(int64(c.FsPrim), int64(c.FsSec)) == 0 ||
		fixed.Ratio5_27(int64(c.FsSec), int64(c.FsPrim)) == 0 {
		return fmt.Errorf("%w: %d/%d", ErrInvalidConversionRatio, c.FsPrim, c.FsSec)
	}
	return nil
}

// conversion returns the rates seen by the filter: push converts primary
// into secondary, pull converts secondary into primary.
func (c *Config) conversion() (fsIn, fsOut int) {
	if c.OperationMode == Pull {
		return c.FsSec, c.FsPrim
	}
	return c.FsPrim, c.FsSec
}

func validFormat(f IOFormat) bool { return f == Deinterleaved || f == Interleaved }

func validBitDepth(bits int) error {
	if bits != bitDepth16 && bits != bitDepth32 {
		return fmt.Errorf("%w: %d", ErrInvalidBitDepth, bits)
	}
	return nil
}

// RequiredSize returns the number of bytes a converter with numChannels
// channels of bitDepth samples may need in the worst case, for callers that
// budget memory before creating one. MemoryUsage never exceeds it.
func RequiredSize(numChannels, bitDepth int) (int, error) {
	if numChannels < 1 || numChannels > maxChannels {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNumChannels, numChannels)
	}
	if err := validBitDepth(bitDepth); err != nil {
		return 0, err
	}
	sampleBytes := bitDepth / 8
	ir := MaxFilterLength * tapBytes
	lines := numChannels * 2 * MaxDelayLineLength * sampleBytes
	return instanceOverheadBytes + ir + lines + sliceHeaderBytes, nil
}

// Backend selects the kernel that evaluates impulse responses and runs
// the FIR convolution. Every backend produces bit-identical output.
type Backend int

const (
	// BackendDefault uses the kernel chosen at build time.
	BackendDefault Backend = iota

	// BackendScalar uses the portable reference kernel.
	BackendScalar

	// BackendPaired uses the two-lane kernel that processes tap pairs.
	BackendPaired
)

func (b Backend) String() string {
	switch b {
	case BackendDefault:
		return "default"
	case BackendScalar:
		return "scalar"
	case BackendPaired:
		return "paired"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

func (b Backend) valid() bool { return b >= BackendDefault && b <= BackendPaired }

func (b Backend) kernel() farrow.Kernel {
	switch b {
	case BackendScalar:
		return farrow.Scalar
	case BackendPaired:
		return farrow.Paired
	}
	return farrow.Default()
}
