package asrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecondaryBuffer(t *testing.T) {
	cfg := validConfig()
	_, err := NewSecondaryBuffer[int32](cfg)
	assert.ErrorIs(t, err, ErrInvalidBufferPointer, "linear mode")

	cfg.BufferMode = Circular
	cfg.BufferLength = 1
	_, err = NewSecondaryBuffer[int32](cfg)
	assert.ErrorIs(t, err, ErrInvalidBufferLength)

	cfg.BufferLength = 8
	push, err := NewSecondaryBuffer[int32](cfg)
	require.NoError(t, err)
	assert.Equal(t, 8, push.Free())
	require.Len(t, push.Buffers(), 1)
	assert.Len(t, push.Buffers()[0], 16)

	cfg.OperationMode = Pull
	cfg.InputFormat = Deinterleaved
	pull, err := NewSecondaryBuffer[int16](cfg)
	require.NoError(t, err)
	assert.Equal(t, 7, pull.Free(), "one frame stays unused")
	require.Len(t, pull.Buffers(), 2)
	assert.Len(t, pull.Buffers()[1], 8)
}

func TestSecondaryBuffer_WrapsAround(t *testing.T) {
	cfg := validConfig()
	cfg.NumChannels = 2
	cfg.BufferMode = Circular
	cfg.BufferLength = 5
	cfg.OperationMode = Pull
	cfg.InputFormat = Deinterleaved

	b, err := NewSecondaryBuffer[int16](cfg)
	require.NoError(t, err)

	next := int16(0)
	want := int16(0)
	dst := [][]int16{make([]int16, 5), make([]int16, 5)}
	for round := range 20 {
		n := 1 + round%4
		src := [][]int16{make([]int16, n), make([]int16, n)}
		for i := range n {
			src[0][i] = next + int16(i)
			src[1][i] = -(next + int16(i))
		}
		written, err := b.Write(src, n)
		require.NoError(t, err)
		next += int16(written)
		assert.LessOrEqual(t, b.Available(), 4)

		idx := b.Indices()
		assert.Equal(t, b.Available(), available(idx.Read, idx.Write, b.Len()))

		got, err := b.Read(dst, 3)
		require.NoError(t, err)
		for i := range got {
			assert.Equal(t, want, dst[0][i])
			assert.Equal(t, -want, dst[1][i])
			want++
		}
	}
}

func TestSecondaryBuffer_ProducedConsumed(t *testing.T) {
	cfg := validConfig()
	cfg.BufferMode = Circular
	cfg.BufferLength = 10

	b, err := NewSecondaryBuffer[int32](cfg)
	require.NoError(t, err)

	b.Produced(7)
	assert.Equal(t, 7, b.Available())
	assert.Equal(t, 3, b.Free())
	b.Produced(20)
	assert.Equal(t, 10, b.Available())
	assert.Zero(t, b.Free())

	b.Consumed(4)
	assert.Equal(t, 6, b.Available())
	b.Consumed(40)
	assert.Zero(t, b.Available())

	_, err = b.Write([][]int32{make([]int32, 2)}, 2)
	assert.ErrorIs(t, err, ErrInvalidBufferPointer, "two samples are one stereo frame")

	b.Reset()
	assert.Equal(t, Indices{}, *b.Indices())
	assert.Equal(t, 10, b.Free())
}
