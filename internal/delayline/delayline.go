// Package delayline holds the per-channel input history that the FIR
// convolution reads from.
package delayline

import (
	"errors"
	"fmt"
	"unsafe"
)

// Sample is the set of supported PCM sample types.
type Sample interface {
	~int16 | ~int32
}

var (
	// ErrTooShort reports a delay line shorter than the FIR window.
	ErrTooShort = errors.New("delayline: length shorter than window")

	// ErrInvalidShape reports a non-positive channel count or window.
	ErrInvalidShape = errors.New("delayline: invalid shape")
)

// Lines is an arena of per-channel delay lines sharing one write cursor.
//
// Every channel owns 2·length samples and each sample is stored twice,
// length apart, so the newest window samples are always one contiguous
// slice regardless of where the cursor is.
type Lines[T Sample] struct {
	data     []T
	channels int
	length   int
	window   int
	cursor   int
	wraps    int
}

// New creates delay lines for channels channels, each holding length
// frames of history, of which the newest window are readable.
func New[T Sample](channels, length, window int) (*Lines[T], error) {
	if channels < 1 || window < 1 {
		return nil, fmt.Errorf("%w: %d channels, window %d", ErrInvalidShape, channels, window)
	}
	if length < window {
		return nil, fmt.Errorf("%w: %d < %d", ErrTooShort, length, window)
	}
	return &Lines[T]{
		data:     make([]T, channels*2*length),
		channels: channels,
		length:   length,
		window:   window,
	}, nil
}

func (l *Lines[T]) channel(ch int) []T {
	span := 2 * l.length
	return l.data[ch*span : (ch+1)*span]
}

// Write stores v for channel ch at the current cursor. All channels of a
// frame are written before Advance.
func (l *Lines[T]) Write(ch int, v T) {
	c := l.channel(ch)
	c[l.cursor] = v
	c[l.cursor+l.length] = v
}

// Advance moves the shared cursor to the next frame, wrapping at length.
func (l *Lines[T]) Advance() {
	l.cursor++
	if l.cursor == l.length {
		l.cursor = 0
		l.wraps++
	}
}

// Window returns the newest window samples of channel ch, oldest first.
// The slice aliases the delay line and is valid until the next Write.
func (l *Lines[T]) Window(ch int) []T {
	end := l.cursor + l.length
	return l.channel(ch)[end-l.window : end : end]
}

// ReadRelative returns the sample offset frames behind the newest one of
// channel ch. Offsets outside the window report false.
func (l *Lines[T]) ReadRelative(ch, offset int) (T, bool) {
	if offset < 0 || offset >= l.window {
		return 0, false
	}
	return l.channel(ch)[l.cursor+l.length-1-offset], true
}

// Reset clears the history and rewinds the cursor.
func (l *Lines[T]) Reset() {
	clear(l.data)
	l.cursor = 0
	l.wraps = 0
}

// Cursor returns the write position, always in [0, Len()).
func (l *Lines[T]) Cursor() int { return l.cursor }

// Len returns the number of frames of history per channel.
func (l *Lines[T]) Len() int { return l.length }

// WindowLen returns the number of readable frames.
func (l *Lines[T]) WindowLen() int { return l.window }

// Channels returns the channel count.
func (l *Lines[T]) Channels() int { return l.channels }

// Wraps returns how many times the cursor has wrapped since creation or Reset.
func (l *Lines[T]) Wraps() int { return l.wraps }

// Bytes returns the arena size in bytes.
func (l *Lines[T]) Bytes() int {
	var zero T
	return len(l.data) * int(unsafe.Sizeof(zero))
}
