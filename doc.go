// Package asrc provides an asynchronous sample rate converter for
// fixed-point PCM audio in pure Go.
//
// The converter bridges two audio clock domains whose nominal rates are
// known but whose actual rates drift against each other. It interpolates
// with a Farrow filter: every FIR tap is a polynomial in the fractional
// sample position, so an impulse response for any position is computed on
// the fly and the conversion ratio can change at any time without
// switching filter tables.
//
// # Features
//
//   - 16-bit and 32-bit integer samples, 1 to 256 channels
//   - Sample rates 8, 11.025, 12, 16, 22.05, 24, 32, 44.1 and 48 kHz
//   - Push mode (fixed input count) and pull mode (fixed output count)
//   - Circular or linear secondary-side buffers
//   - Feedback drift correction ([Converter.UpdateDrift]) or exact
//     per-cycle frame counts ([Converter.UpdateFsRatio])
//   - Bit-exact fixed-point arithmetic with saturation
//   - No allocation while processing
//
// # Terminology
//
// The primary side is always accessed linearly; its rate is FsPrim. The
// secondary side goes through a buffer of BufferLength frames tracked by
// [Indices]; its rate is FsSec. In push mode primary frames are converted
// into the secondary buffer, in pull mode secondary frames are converted
// into primary output.
//
// # Quick Start
//
// For one-shot conversion of a whole signal:
//
//	out, err := asrc.Convert16(samples, 2, asrc.RateDAT, asrc.RateCD)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For streaming with a circular secondary buffer:
//
//	cfg := asrc.Config{
//	    NumChannels:   2,
//	    FsPrim:        48000,
//	    FsSec:         44100,
//	    InputFormat:   asrc.Interleaved,
//	    OutputFormat:  asrc.Interleaved,
//	    BufferMode:    asrc.Circular,
//	    BufferLength:  1024,
//	    BitDepth:      32,
//	    ControlMode:   asrc.Feedback,
//	    OperationMode: asrc.Push,
//	}
//	c, err := asrc.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sec, _ := asrc.NewSecondaryBuffer[int32](cfg)
//
//	for block := range blocks {
//	    res, err := c.ProcessPush32([][]int32{block}, sec.Buffers(), len(block)/2, sec.Indices())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    sec.Produced(res.OutputFrames)
//	    // drain sec with sec.Read
//	}
//
// # Drift Correction
//
// In feedback mode a clock recovery loop measures the skew of the secondary
// clock and passes it to [Converter.UpdateDrift] as a Q2.30 factor;
// [SkewFromPPM] and [SkewFromFrames] build one. In fixed mode the caller
// announces how many primary and secondary frames the next control cycle
// spans with [Converter.UpdateFsRatio] and the converter verifies the cycle
// closes exactly.
//
// # Changing Rates
//
// The rates of a running converter cannot change in place. [Converter.Release]
// frees its filter and returns a [Released] handle whose SetFsRatio builds a
// converter for the new rates.
//
// # Errors
//
// Every error wraps one of the Err sentinels; [CodeOf] recovers the numeric
// [ErrorCode]. The package never logs.
package asrc
