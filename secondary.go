package asrc

import "fmt"

// SecondaryBuffer is caller-side storage for the circular secondary buffer
// of a converter. It keeps the fill level that Indices alone cannot express
// and moves frames in and out in the converter's layout.
//
// In push mode the converter produces into the buffer and the caller reads
// from it; in pull mode the caller writes and the converter consumes. A
// SecondaryBuffer is not safe for concurrent use.
type SecondaryBuffer[T Sample] struct {
	bufs     [][]T
	view     frameView[T]
	length   int
	capacity int
	idx      Indices
	fill     int
}

// NewSecondaryBuffer allocates the secondary buffer for a circular-mode
// converter configured with cfg.
func NewSecondaryBuffer[T Sample](cfg Config) (*SecondaryBuffer[T], error) {
	if cfg.BufferMode != Circular {
		return nil, fmt.Errorf("%w: secondary buffer needs circular mode", ErrInvalidBufferPointer)
	}
	if cfg.NumChannels < 1 || cfg.NumChannels > maxChannels {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNumChannels, cfg.NumChannels)
	}
	if cfg.BufferLength < MinBufferLength {
		return nil, fmt.Errorf("%w: %d frames", ErrInvalidBufferLength, cfg.BufferLength)
	}

	format, capacity := cfg.OutputFormat, cfg.BufferLength
	if cfg.OperationMode == Pull {
		// Equal indices read as empty, so one frame always stays unused.
		format, capacity = cfg.InputFormat, cfg.BufferLength-1
	}

	var bufs [][]T
	if format == Interleaved {
		bufs = [][]T{make([]T, cfg.BufferLength*cfg.NumChannels)}
	} else {
		bufs = make([][]T, cfg.NumChannels)
		for ch := range bufs {
			bufs[ch] = make([]T, cfg.BufferLength)
		}
	}

	return &SecondaryBuffer[T]{
		bufs:     bufs,
		view:     newFrameView(bufs, cfg.NumChannels, format),
		length:   cfg.BufferLength,
		capacity: capacity,
	}, nil
}

// Buffers returns the storage to pass to the converter.
func (b *SecondaryBuffer[T]) Buffers() [][]T { return b.bufs }

// Indices returns the positions to pass to the converter.
func (b *SecondaryBuffer[T]) Indices() *Indices { return &b.idx }

// Produced records n frames written by a push call.
func (b *SecondaryBuffer[T]) Produced(n int) { b.fill = min(b.fill+n, b.length) }

// Consumed records n frames read by a pull call.
func (b *SecondaryBuffer[T]) Consumed(n int) { b.fill = max(b.fill-n, 0) }

// Available returns the number of buffered frames.
func (b *SecondaryBuffer[T]) Available() int { return b.fill }

// Free returns the number of frames that can still be stored. A push
// converter must not be called while Free is zero: it would read the
// equal indices as an empty buffer.
func (b *SecondaryBuffer[T]) Free() int { return b.capacity - b.fill }

// Len returns the buffer length in frames.
func (b *SecondaryBuffer[T]) Len() int { return b.length }

// Write copies up to frames frames from src, laid out like the buffer, and
// returns the number stored.
func (b *SecondaryBuffer[T]) Write(src [][]T, frames int) (int, error) {
	n := max(min(frames, b.Free()), 0)
	from := frameView[T]{bufs: src, channels: b.view.channels, interleaved: b.view.interleaved}
	if err := from.check(n); err != nil {
		return 0, err
	}
	for f := range n {
		for ch := range b.view.channels {
			b.view.set(b.idx.Write, ch, from.get(f, ch))
		}
		b.idx.Write = (b.idx.Write + 1) % b.length
	}
	b.fill += n
	return n, nil
}

// Read moves up to frames buffered frames into dst, laid out like the
// buffer, and returns the number moved.
func (b *SecondaryBuffer[T]) Read(dst [][]T, frames int) (int, error) {
	n := max(min(frames, b.fill), 0)
	to := frameView[T]{bufs: dst, channels: b.view.channels, interleaved: b.view.interleaved}
	if err := to.check(n); err != nil {
		return 0, err
	}
	for f := range n {
		for ch := range b.view.channels {
			to.set(f, ch, b.view.get(b.idx.Read, ch))
		}
		b.idx.Read = (b.idx.Read + 1) % b.length
	}
	b.fill -= n
	return n, nil
}

// Reset empties the buffer.
func (b *SecondaryBuffer[T]) Reset() {
	for _, s := range b.bufs {
		clear(s)
	}
	b.idx = Indices{}
	b.fill = 0
}
