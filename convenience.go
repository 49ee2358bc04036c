package asrc

import "fmt"

// Common sample rates.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD and video production sample rate.
	RateDAT = 48000

	// RateTelephony is the narrowband telephony sample rate.
	RateTelephony = 8000

	// RateVoIP is the wideband VoIP sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// convertChunk is the number of input frames pushed per call.
const convertChunk = 1024

// Convert16 converts a complete interleaved 16-bit signal from fsIn to
// fsOut at the nominal ratio. The output holds one frame per elapsed output
// period and lags the input by half the filter length.
func Convert16(input []int16, channels, fsIn, fsOut int) ([]int16, error) {
	return convert(input, channels, fsIn, fsOut, bitDepth16, (*Converter).ProcessPush16)
}

// Convert32 is Convert16 for 32-bit samples.
func Convert32(input []int32, channels, fsIn, fsOut int) ([]int32, error) {
	return convert(input, channels, fsIn, fsOut, bitDepth32, (*Converter).ProcessPush32)
}

// ConvertDAT16ToCD converts interleaved 48 kHz audio to 44.1 kHz.
func ConvertDAT16ToCD(input []int16, channels int) ([]int16, error) {
	return Convert16(input, channels, RateDAT, RateCD)
}

// ConvertCD16ToDAT converts interleaved 44.1 kHz audio to 48 kHz.
func ConvertCD16ToDAT(input []int16, channels int) ([]int16, error) {
	return Convert16(input, channels, RateCD, RateDAT)
}

type pushFunc[T Sample] func(c *Converter, in, out [][]T, inputFrames int, idx *Indices) (Result, error)

func convert[T Sample](input []T, channels, fsIn, fsOut, bits int, process pushFunc[T]) ([]T, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumChannels, channels)
	}
	if len(input)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples for %d channels", ErrInvalidFrameSize, len(input), channels)
	}

	bufLen := max(convertChunk*fsOut/max(fsIn, 1)+2, MinBufferLength)
	c, err := New(Config{
		NumChannels:   channels,
		FsPrim:        fsIn,
		FsSec:         fsOut,
		InputFormat:   Interleaved,
		OutputFormat:  Interleaved,
		BufferMode:    Linear,
		BufferLength:  bufLen,
		BitDepth:      bits,
		ControlMode:   Feedback,
		OperationMode: Push,
	})
	if err != nil {
		return nil, err
	}

	frames := len(input) / channels
	expected := int(int64(frames) * int64(fsOut) / int64(fsIn))
	output := make([]T, 0, (expected+2)*channels)
	chunk := make([]T, bufLen*channels)

	for pos := 0; pos < frames; {
		n := min(convertChunk, frames-pos)
		var idx Indices
		res, err := process(c, [][]T{input[pos*channels:]}, [][]T{chunk}, n, &idx)
		if err != nil {
			return nil, err
		}
		output = append(output, chunk[:res.OutputFrames*channels]...)
		pos += res.InputFrames
		if res.InputFrames == 0 && res.OutputFrames == 0 {
			break
		}
	}
	return output, nil
}
