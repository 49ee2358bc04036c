package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	asrc "github.com/tphakala/go-asrc"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)
	if bitDepth != bitsPerSample16 && bitDepth != bitsPerSample24 && bitDepth != bitsPerSample32 {
		_ = inputFile.Close()
		return nil, fmt.Errorf("unsupported bit depth %d (want 16, 24 or 32)", bitDepth)
	}

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	// Duration is only used for progress reporting.
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	buf     *audio.IntBuffer
}

// createWAVOutput creates the output file and a PCM encoder for it.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteSamples writes interleaved integer samples.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	if len(samples) == 0 {
		return nil
	}
	w.buf.Data = samples
	return w.encoder.Write(w.buf)
}

// Close finalises the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// pcmWidth returns the converter sample width for a file bit depth.
func pcmWidth(bitDepth int) int {
	if bitDepth == bitsPerSample16 {
		return bitsPerSample16
	}
	return bitsPerSample32
}

// rescale moves a sample between integer widths, keeping it left aligned.
func rescale(v, from, to int) int {
	if from > to {
		return v >> (from - to)
	}
	return v << (to - from)
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{totalFrames: totalFrames, verbose: verbose}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

type pushFunc[T asrc.Sample] func(c *asrc.Converter, in, out [][]T, inputFrames int, idx *asrc.Indices) (asrc.Result, error)

// streamConverter pushes decoded chunks through a converter and encodes
// the result.
type streamConverter[T asrc.Sample] struct {
	conv     *asrc.Converter
	process  pushFunc[T]
	channels int
	fileBits int
	width    int

	in      []T
	out     []T
	encoded []int
}

func newStreamConverter[T asrc.Sample](conv *asrc.Converter, process pushFunc[T], fileBits, width int) *streamConverter[T] {
	cfg := conv.Config()
	return &streamConverter[T]{
		conv:     conv,
		process:  process,
		channels: cfg.NumChannels,
		fileBits: fileBits,
		width:    width,
		in:       make([]T, chunkFrames*cfg.NumChannels),
		out:      make([]T, cfg.BufferLength*cfg.NumChannels),
		encoded:  make([]int, cfg.BufferLength*cfg.NumChannels),
	}
}

// convert converts frames interleaved frames already stored in s.in and
// writes the output. It returns the number of output frames.
func (s *streamConverter[T]) convert(frames int, output *wavOutputWriter) (int64, error) {
	var written int64
	for pos := 0; pos < frames; {
		var idx asrc.Indices
		res, err := s.process(s.conv, [][]T{s.in[pos*s.channels : frames*s.channels]}, [][]T{s.out}, frames-pos, &idx)
		if err != nil {
			return written, fmt.Errorf("conversion failed: %w", err)
		}
		n := res.OutputFrames * s.channels
		for i, v := range s.out[:n] {
			s.encoded[i] = rescale(int(v), s.width, s.fileBits)
		}
		if err := output.WriteSamples(s.encoded[:n]); err != nil {
			return written, fmt.Errorf("failed to write audio data: %w", err)
		}
		written += int64(res.OutputFrames)
		pos += res.InputFrames
		if res.InputFrames == 0 && res.OutputFrames == 0 {
			return written, errors.New("converter made no progress")
		}
	}
	return written, nil
}

// run streams the whole input through the converter, then drains the
// filter with silence so the output covers the full input duration.
func (s *streamConverter[T]) run(input *wavInputInfo, output *wavOutputWriter, progress *progressTracker) (inFrames, outFrames int64, err error) {
	buf := &audio.IntBuffer{
		Data:           make([]int, chunkFrames*s.channels),
		Format:         input.format,
		SourceBitDepth: input.bitDepth,
	}

	for {
		n, err := input.decoder.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return inFrames, outFrames, fmt.Errorf("failed to read audio data: %w", err)
		}
		frames := n / s.channels
		if frames == 0 {
			break
		}

		for i, v := range buf.Data[:frames*s.channels] {
			s.in[i] = T(rescale(v, s.fileBits, s.width))
		}
		written, err := s.convert(frames, output)
		if err != nil {
			return inFrames, outFrames, err
		}
		inFrames += int64(frames)
		outFrames += written
		progress.reportIfNeeded(inFrames)

		buf.Data = buf.Data[:cap(buf.Data)]
	}

	tail := s.conv.Info().Latency
	clear(s.in[:tail*s.channels])
	written, err := s.convert(tail, output)
	return inFrames, outFrames + written, err
}
