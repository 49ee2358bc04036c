package asrc

import (
	"fmt"

	"github.com/tphakala/go-asrc/internal/delayline"
)

// ProcessPush16 consumes up to inputFrames frames from the linear input in
// and writes converted frames to the secondary buffer out, starting at
// idx.Write (circular) or 0 (linear). It stops early when the secondary
// buffer runs out of free space. idx.Write is advanced past the last frame
// written.
//
// The returned Result is valid even when err reports a failed fixed-mode
// control cycle.
func (c *Converter) ProcessPush16(in, out [][]int16, inputFrames int, idx *Indices) (Result, error) {
	if err := c.enter(Push, bitDepth16, idx); err != nil {
		return Result{}, err
	}
	return push(c, c.lines16, c.kernel.FIR16, in, out, inputFrames, idx)
}

// ProcessPush32 is ProcessPush16 for 32-bit samples.
func (c *Converter) ProcessPush32(in, out [][]int32, inputFrames int, idx *Indices) (Result, error) {
	if err := c.enter(Push, bitDepth32, idx); err != nil {
		return Result{}, err
	}
	return push(c, c.lines32, c.kernel.FIR32, in, out, inputFrames, idx)
}

// ProcessPull16 writes up to outputFrames frames to the linear output out,
// reading secondary frames from in starting at idx.Read (circular) or 0
// (linear) until idx.Write. It stops early when the secondary buffer runs
// dry. idx.Read is advanced past the last frame read.
func (c *Converter) ProcessPull16(in, out [][]int16, outputFrames int, idx *Indices) (Result, error) {
	if err := c.enter(Pull, bitDepth16, idx); err != nil {
		return Result{}, err
	}
	return pull(c, c.lines16, c.kernel.FIR16, in, out, outputFrames, idx)
}

// ProcessPull32 is ProcessPull16 for 32-bit samples.
func (c *Converter) ProcessPull32(in, out [][]int32, outputFrames int, idx *Indices) (Result, error) {
	if err := c.enter(Pull, bitDepth32, idx); err != nil {
		return Result{}, err
	}
	return pull(c, c.lines32, c.kernel.FIR32, in, out, outputFrames, idx)
}

// enter performs the checks shared by every processing entry point.
func (c *Converter) enter(mode OperationMode, bits int, idx *Indices) error {
	if idx == nil {
		return fmt.Errorf("%w: nil indices", ErrInvalidPointer)
	}
	if err := c.live(); err != nil {
		return err
	}
	if c.cfg.OperationMode != mode {
		return fmt.Errorf("%w: converter is in %v mode", modeError(mode), c.cfg.OperationMode)
	}
	if c.cfg.BitDepth != bits {
		return fmt.Errorf("%w: %d-bit call on a %d-bit converter", ErrInvalidBitDepth, bits, c.cfg.BitDepth)
	}
	if c.cfg.ControlMode == Fixed && !c.clk.updated {
		return ErrUpdateFsFailed
	}
	return nil
}

func modeError(mode OperationMode) error {
	if mode == Pull {
		return ErrFailedPullMode
	}
	return ErrFailedPushMode
}

func (c *Converter) circular() bool { return c.cfg.BufferMode == Circular }

// impulseResponse evaluates the filter taps at the current time value.
func (c *Converter) impulseResponse() {
	c.kernel.ImpulseResponse(c.ir, c.table, c.clk.tv.Q1_31())
}

func push[T Sample](c *Converter, lines *delayline.Lines[T], fir func([]int32, []T) T,
	inBufs, outBufs [][]T, inputFrames int, idx *Indices,
) (Result, error) {
	if inputFrames < 0 {
		return Result{}, fmt.Errorf("%w: %d input frames", ErrInvalidFrameSize, inputFrames)
	}
	channels, length := c.cfg.NumChannels, c.cfg.BufferLength
	in := newFrameView(inBufs, channels, c.cfg.InputFormat)
	out := newFrameView(outBufs, channels, c.cfg.OutputFormat)
	if err := in.check(inputFrames); err != nil {
		return Result{}, err
	}
	if err := out.check(length); err != nil {
		return Result{}, err
	}

	io, limit := 0, length
	if c.circular() {
		if !inRange(idx.Read, length) || !inRange(idx.Write, length) {
			return Result{}, fmt.Errorf("%w: indices %d/%d outside buffer of %d frames",
				ErrFailedPushMode, idx.Read, idx.Write, length)
		}
		io, limit = idx.Write, free(idx.Read, idx.Write, length)
	}

	var res Result
	for res.InputFrames < inputFrames {
		if c.clk.pushOutputDue() {
			if res.OutputFrames == limit {
				break
			}
			c.impulseResponse()
			for ch := range channels {
				out.set(io, ch, fir(c.ir, lines.Window(ch)))
			}
			c.clk.pushEmitted()
			io++
			if c.circular() && io >= length {
				io = 0
			}
			res.OutputFrames++
		} else {
			for ch := range channels {
				lines.Write(ch, in.get(res.InputFrames, ch))
			}
			lines.Advance()
			res.InputFrames++
			c.clk.pushConsumed()
		}
	}
	idx.Write = io

	if c.cfg.ControlMode == Fixed {
		switch c.clk.account(res.InputFrames, res.OutputFrames, c.clk.tv) {
		case cycleMissedTarget:
			return res, fmt.Errorf("%w: generated %d frames, target %d", ErrFailedPushMode, c.clk.sec, c.clk.secTarget)
		case cycleTimeResidual:
			return res, fmt.Errorf("%w: time value %d at end of cycle", ErrFailedPushMode, c.clk.tv)
		}
	}
	return res, nil
}

func pull[T Sample](c *Converter, lines *delayline.Lines[T], fir func([]int32, []T) T,
	inBufs, outBufs [][]T, outputFrames int, idx *Indices,
) (Result, error) {
	if outputFrames < 0 {
		return Result{}, fmt.Errorf("%w: %d output frames", ErrInvalidFrameSize, outputFrames)
	}
	channels, length := c.cfg.NumChannels, c.cfg.BufferLength
	in := newFrameView(inBufs, channels, c.cfg.InputFormat)
	out := newFrameView(outBufs, channels, c.cfg.OutputFormat)
	if err := in.check(length); err != nil {
		return Result{}, err
	}
	if err := out.check(outputFrames); err != nil {
		return Result{}, err
	}

	io := 0
	if c.circular() {
		if !inRange(idx.Read, length) || !inRange(idx.Write, length) {
			return Result{}, fmt.Errorf("%w: indices %d/%d outside buffer of %d frames",
				ErrFailedPullMode, idx.Read, idx.Write, length)
		}
		io = idx.Read
	} else if idx.Write < 0 || idx.Write > length {
		return Result{}, fmt.Errorf("%w: write index %d outside buffer of %d frames",
			ErrFailedPullMode, idx.Write, length)
	}

	var res Result
	for res.OutputFrames < outputFrames {
		if c.clk.pullInputDue() {
			if io == idx.Write {
				break
			}
			for ch := range channels {
				lines.Write(ch, in.get(io, ch))
			}
			lines.Advance()
			io++
			if c.circular() && io >= length {
				io = 0
			}
			res.InputFrames++
			c.clk.pullConsumed()
		} else {
			c.impulseResponse()
			for ch := range channels {
				out.set(res.OutputFrames, ch, fir(c.ir, lines.Window(ch)))
			}
			c.clk.pullEmitted()
			res.OutputFrames++
		}
	}
	idx.Read = io

	if c.cfg.ControlMode == Fixed {
		switch c.clk.account(res.OutputFrames, res.InputFrames, c.clk.tvp) {
		case cycleMissedTarget:
			return res, fmt.Errorf("%w: consumed %d frames, target %d", ErrFailedPullMode, c.clk.sec, c.clk.secTarget)
		case cycleTimeResidual:
			return res, fmt.Errorf("%w: time value %d at end of cycle", ErrFailedPullMode, c.clk.tvp)
		}
	}
	return res, nil
}

func inRange(i, length int) bool { return i >= 0 && i < length }
