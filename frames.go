package asrc

import (
	"fmt"

	"github.com/tphakala/go-asrc/internal/delayline"
)

// Sample is the set of PCM sample types the converter processes.
type Sample interface {
	delayline.Sample
}

// Indices are the read and write positions of the secondary-side buffer,
// in frames.
type Indices struct {
	Read  int
	Write int
}

// Result reports how many frames one processing call consumed and produced.
type Result struct {
	InputFrames  int
	OutputFrames int
}

// frameView addresses frames of a caller buffer in either layout. An
// interleaved buffer is bufs[0] with channels samples per frame; a
// deinterleaved buffer is one slice per channel.
type frameView[T Sample] struct {
	bufs        [][]T
	channels    int
	interleaved bool
}

func newFrameView[T Sample](bufs [][]T, channels int, format IOFormat) frameView[T] {
	return frameView[T]{bufs: bufs, channels: channels, interleaved: format == Interleaved}
}

// check reports whether the buffer can hold frames frames.
func (v frameView[T]) check(frames int) error {
	if v.interleaved {
		if len(v.bufs) < 1 || len(v.bufs[0]) < frames*v.channels {
			return fmt.Errorf("%w: interleaved buffer shorter than %d frames of %d channels",
				ErrInvalidBufferPointer, frames, v.channels)
		}
		return nil
	}
	if len(v.bufs) < v.channels {
		return fmt.Errorf("%w: %d channel buffers for %d channels", ErrInvalidBufferPointer, len(v.bufs), v.channels)
	}
	for ch := range v.channels {
		if len(v.bufs[ch]) < frames {
			return fmt.Errorf("%w: channel %d shorter than %d frames", ErrInvalidBufferPointer, ch, frames)
		}
	}
	return nil
}

func (v frameView[T]) get(frame, ch int) T {
	if v.interleaved {
		return v.bufs[0][frame*v.channels+ch]
	}
	return v.bufs[ch][frame]
}

func (v frameView[T]) set(frame, ch int, x T) {
	if v.interleaved {
		v.bufs[0][frame*v.channels+ch] = x
		return
	}
	v.bufs[ch][frame] = x
}

// free returns the number of frames a circular writer may produce before
// reaching the reader. Equal indices mean the whole buffer is free.
func free(read, write, length int) int {
	if read > write {
		return read - write
	}
	return length + read - write
}

// available returns the number of frames a circular reader may consume.
func available(read, write, length int) int {
	if write >= read {
		return write - read
	}
	return length + write - read
}
