package asrc

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-asrc/internal/delayline"
	"github.com/tphakala/go-asrc/internal/farrow"
	"github.com/tphakala/go-asrc/internal/filter"
	"github.com/tphakala/go-asrc/internal/fixed"
	"github.com/tphakala/simd/cpu"
)

// Converter is an asynchronous sample rate converter for one stream of
// NumChannels channels. It is not safe for concurrent use.
type Converter struct {
	cfg    Config
	design farrow.Design
	table  *farrow.Table
	kernel farrow.Kernel

	// ir holds the impulse response for the current time value.
	ir []int32

	// Exactly one of the delay lines is allocated, matching BitDepth.
	lines16 *delayline.Lines[int16]
	lines32 *delayline.Lines[int32]

	clk      clock
	released bool
}

// New creates a converter for cfg.
func New(cfg Config) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fsIn, fsOut := cfg.conversion()
	d, err := farrow.Select(fsIn, fsOut)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}
	tbl, err := farrow.Load(d)
	if err != nil {
		return nil, tableError(err)
	}
	if err := tbl.Validate(); err != nil {
		return nil, tableError(err)
	}

	length := cfg.DelayLineLength
	if length == 0 {
		length = delayLineFactor * tbl.FilterLength
	}

	c := &Converter{
		cfg:    cfg,
		design: d,
		table:  tbl,
		kernel: cfg.Backend.kernel(),
		ir:     make([]int32, tbl.FilterLength),
		clk:    newClock(cfg.FsPrim, cfg.FsSec),
	}

	switch cfg.BitDepth {
	case bitDepth16:
		c.lines16, err = delayline.New[int16](cfg.NumChannels, length, tbl.FilterLength)
	default:
		c.lines32, err = delayline.New[int32](cfg.NumChannels, length, tbl.FilterLength)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBufferLength, err)
	}
	return c, nil
}

func tableError(err error) error {
	switch {
	case errors.Is(err, filter.ErrInvalidLength):
		return fmt.Errorf("%w: %w", ErrInvalidFilterLength, err)
	case errors.Is(err, filter.ErrInvalidOrder):
		return fmt.Errorf("%w: %w", ErrInvalidConversionRatio, err)
	}
	return fmt.Errorf("%w: %w", ErrInitFailed, err)
}

func (c *Converter) live() error {
	if c == nil {
		return ErrInvalidPointer
	}
	if c.released {
		return fmt.Errorf("%w: converter released", ErrInitFailed)
	}
	return nil
}

// SetInputFormat changes the layout of input buffers.
func (c *Converter) SetInputFormat(f IOFormat) error {
	if err := c.live(); err != nil {
		return err
	}
	if !validFormat(f) {
		return fmt.Errorf("%w: %v", ErrInvalidBufferPointer, f)
	}
	c.cfg.InputFormat = f
	return nil
}

// SetOutputFormat changes the layout of output buffers.
func (c *Converter) SetOutputFormat(f IOFormat) error {
	if err := c.live(); err != nil {
		return err
	}
	if !validFormat(f) {
		return fmt.Errorf("%w: %v", ErrInvalidBufferPointer, f)
	}
	c.cfg.OutputFormat = f
	return nil
}

// Reset clears the delay lines, the time base and the fixed-mode cycle,
// keeping the current conversion ratio. Use it after a stream discontinuity.
func (c *Converter) Reset() {
	if c.live() != nil {
		return
	}
	if c.lines16 != nil {
		c.lines16.Reset()
	}
	if c.lines32 != nil {
		c.lines32.Reset()
	}
	clear(c.ir)
	c.clk.reset()
}

// Config returns the configuration the converter runs with.
func (c *Converter) Config() Config { return c.cfg }

// Ratio returns fsPrim/fsSec in Q5.27, including any drift correction.
func (c *Converter) Ratio() fixed.Q5_27 { return c.clk.ratio }

// RatioInv returns fsSec/fsPrim in Q5.27, including any drift correction.
func (c *Converter) RatioInv() fixed.Q5_27 { return c.clk.ratioInv }

// TimeValue returns the fractional input position of the next output.
func (c *Converter) TimeValue() fixed.Q5_27 { return c.clk.tv }

// TimeValuePull returns the output-side time position used in pull mode.
func (c *Converter) TimeValuePull() fixed.Q5_27 { return c.clk.tvp }

// FilterLength returns the number of FIR taps.
func (c *Converter) FilterLength() int {
	if c.table == nil {
		return 0
	}
	return c.table.FilterLength
}

// NumFilters returns the number of Farrow polynomial coefficients per tap.
func (c *Converter) NumFilters() int {
	if c.table == nil {
		return 0
	}
	return c.table.NumFilters
}

// DelayLineLength returns the per-channel history in frames.
func (c *Converter) DelayLineLength() int {
	switch {
	case c.lines16 != nil:
		return c.lines16.Len()
	case c.lines32 != nil:
		return c.lines32.Len()
	}
	return 0
}

// WritePosition returns the delay line cursor, in [0, DelayLineLength()).
func (c *Converter) WritePosition() int {
	switch {
	case c.lines16 != nil:
		return c.lines16.Cursor()
	case c.lines32 != nil:
		return c.lines32.Cursor()
	}
	return 0
}

// Wraps returns how often the delay line cursor has wrapped.
func (c *Converter) Wraps() int {
	switch {
	case c.lines16 != nil:
		return c.lines16.Wraps()
	case c.lines32 != nil:
		return c.lines32.Wraps()
	}
	return 0
}

// MemoryUsage returns the bytes held by the converter's buffers plus a
// fixed overhead. It never exceeds RequiredSize for the same shape.
func (c *Converter) MemoryUsage() int {
	n := instanceOverheadBytes + len(c.ir)*tapBytes + sliceHeaderBytes
	switch {
	case c.lines16 != nil:
		n += c.lines16.Bytes()
	case c.lines32 != nil:
		n += c.lines32.Bytes()
	}
	return n
}

// Info describes a converter's filter and runtime.
type Info struct {
	Algorithm       string
	Conversion      string
	NumFilters      int
	FilterLength    int
	DelayLineLength int
	Latency         int // input frames
	MemoryUsage     int
	Backend         string
	CPU             string
}

// Info returns a description of the converter.
func (c *Converter) Info() Info {
	return Info{
		Algorithm:       "farrow",
		Conversion:      c.design.Name,
		NumFilters:      c.NumFilters(),
		FilterLength:    c.FilterLength(),
		DelayLineLength: c.DelayLineLength(),
		Latency:         c.FilterLength() / 2,
		MemoryUsage:     c.MemoryUsage(),
		Backend:         c.kernel.Name(),
		CPU:             cpu.Info(),
	}
}
