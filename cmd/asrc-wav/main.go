// Command asrc-wav converts WAV audio files between the rates supported by
// the ASRC, optionally simulating a drifting secondary clock.
//
// Usage:
//
//	asrc-wav -rate 44.1 input.wav output.wav
//	asrc-wav -rate 16 -backend scalar speech.wav speech_16k.wav
//	asrc-wav -rate 48 -drift 120 input.wav output.wav   # secondary clock 120 ppm fast
//
// 16-bit files are processed with the 16-bit converter. 24-bit and 32-bit
// files use the 32-bit converter.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	asrc "github.com/tphakala/go-asrc"
)

const (
	// Frames decoded per chunk.
	chunkFrames = 8192

	// Largest output to input ratio, 48 kHz from 8 kHz.
	maxUpsample = 6

	// Output frames available per push call.
	outputFrames = chunkFrames*maxUpsample + 64

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	wavFormatPCM = 1

	kHzToHz          = 1000
	progressInterval = 10 // Print progress every N%

	// CLI defaults
	defaultRateKHz  = 48.0
	minRequiredArgs = 2
	percentScale    = 100
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (8, 16, 24, 32, 44.1, 48)")
	drift := flag.Float64("drift", 0, "Secondary clock deviation in ppm, applied as a fixed skew")
	backend := flag.String("backend", "default", "Filter kernel: default, scalar, paired")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 44.1 input.wav output.wav     # DAT to CD\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 16 speech.wav speech_16k.wav  # Downsample for speech\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	kernel, err := parseBackend(*backend)
	if err != nil {
		return err
	}

	opts := convertOptions{
		targetRate: int(*rateKHz*kHzToHz + 0.5),
		driftPPM:   *drift,
		backend:    kernel,
		verbose:    *verbose,
	}
	inputPath, outputPath := args[0], args[1]

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Target rate: %d Hz", opts.targetRate)
		log.Printf("Backend: %s", kernel)
		if opts.driftPPM != 0 {
			log.Printf("Drift: %+.1f ppm", opts.driftPPM)
		}
	}

	start := time.Now()
	stats, err := convertWAV(inputPath, outputPath, opts)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Converted %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	fmt.Printf("  Filter: %s, %d taps, %d polynomials\n", stats.info.Conversion, stats.info.FilterLength, stats.info.NumFilters)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputFrames)/float64(stats.inputRate)/elapsed.Seconds())

	return nil
}

type convertOptions struct {
	targetRate int
	driftPPM   float64
	backend    asrc.Backend
	verbose    bool
}

type convertStats struct {
	inputRate    int
	outputRate   int
	channels     int
	bitDepth     int
	inputFrames  int64
	outputFrames int64
	info         asrc.Info
}

func parseBackend(name string) (asrc.Backend, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return asrc.BackendDefault, nil
	case "scalar":
		return asrc.BackendScalar, nil
	case "paired":
		return asrc.BackendPaired, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", name)
	}
}

// newConverter builds a linear interleaved push converter for the input.
func newConverter(input *wavInputInfo, opts convertOptions) (*asrc.Converter, error) {
	cfg := asrc.Config{
		NumChannels:   input.channels,
		FsPrim:        input.rate,
		FsSec:         opts.targetRate,
		InputFormat:   asrc.Interleaved,
		OutputFormat:  asrc.Interleaved,
		BufferMode:    asrc.Linear,
		BufferLength:  outputFrames,
		BitDepth:      pcmWidth(input.bitDepth),
		ControlMode:   asrc.Feedback,
		OperationMode: asrc.Push,
		Backend:       opts.backend,
	}
	conv, err := asrc.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create converter: %w", err)
	}
	if opts.driftPPM != 0 {
		if err := conv.UpdateDrift(asrc.SkewFromPPM(opts.driftPPM)); err != nil {
			return nil, fmt.Errorf("failed to apply drift: %w", err)
		}
	}
	return conv, nil
}

func convertWAV(inputPath, outputPath string, opts convertOptions) (stats *convertStats, err error) {
	input, err := openWAVInput(inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	conv, err := newConverter(input, opts)
	if err != nil {
		return nil, err
	}

	output, err := createWAVOutput(outputPath, opts.targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// The encoder rewrites the header on close.
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	stats = &convertStats{
		inputRate:  input.rate,
		outputRate: opts.targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
		info:       conv.Info(),
	}
	progress := newProgressTracker(input.totalFrames, opts.verbose)

	width := pcmWidth(input.bitDepth)
	if width == bitsPerSample16 {
		s := newStreamConverter[int16](conv, (*asrc.Converter).ProcessPush16, input.bitDepth, width)
		stats.inputFrames, stats.outputFrames, err = s.run(input, output, progress)
	} else {
		s := newStreamConverter[int32](conv, (*asrc.Converter).ProcessPush32, input.bitDepth, width)
		stats.inputFrames, stats.outputFrames, err = s.run(input, output, progress)
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}
