package asrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-asrc/internal/farrow"
	"github.com/tphakala/go-asrc/internal/fixed"
)

func TestNew_RatioForEveryRatePair(t *testing.T) {
	for _, mode := range []OperationMode{Push, Pull} {
		for _, prim := range SupportedRates() {
			for _, sec := range SupportedRates() {
				cfg := validConfig()
				cfg.OperationMode = mode
				cfg.FsPrim, cfg.FsSec = prim, sec

				c, err := New(cfg)
				fsIn, fsOut := cfg.conversion()
				if _, selErr := farrow.Select(fsIn, fsOut); selErr != nil {
					assert.ErrorIs(t, err, ErrInvalidSampleRate, "%v %d -> %d", mode, prim, sec)
					continue
				}
				require.NoError(t, err, "%v %d -> %d", mode, prim, sec)

				wantRatio := fixed.Q5_27((int64(1) << 27) * int64(prim) / int64(sec))
				wantInv := fixed.Q5_27((int64(1) << 27) * int64(sec) / int64(prim))
				assert.Equal(t, wantRatio, c.Ratio(), "%v %d -> %d", mode, prim, sec)
				assert.Equal(t, wantInv, c.RatioInv(), "%v %d -> %d", mode, prim, sec)
				assert.Zero(t, c.TimeValue())
				assert.Zero(t, c.TimeValuePull())
			}
		}
	}
}

func TestNew_FilterSelection(t *testing.T) {
	tests := []struct {
		name        string
		mode        OperationMode
		prim, sec   int
		conversion  string
		numFilters  int
		filterLen   int
		delayLength int
	}{
		{"push downsample", Push, 48000, 44100, "48000-44100", 7, 64, 128},
		{"pull upsample", Pull, 48000, 44100, "upsample", 7, 64, 128},
		{"push 48 to 8", Push, 48000, 8000, "48000-08000", 4, 128, 256},
		{"pull from 48 to 16", Pull, 16000, 48000, "48000-16000", 5, 96, 192},
		{"same rate", Push, 48000, 48000, "48000-48000", 7, 48, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.OperationMode = tt.mode
			cfg.FsPrim, cfg.FsSec = tt.prim, tt.sec

			c, err := New(cfg)
			require.NoError(t, err)

			info := c.Info()
			assert.Equal(t, "farrow", info.Algorithm)
			assert.Equal(t, tt.conversion, info.Conversion)
			assert.Equal(t, tt.numFilters, info.NumFilters)
			assert.Equal(t, tt.filterLen, info.FilterLength)
			assert.Equal(t, tt.delayLength, info.DelayLineLength)
			assert.Equal(t, tt.filterLen/2, info.Latency)
			assert.Equal(t, farrow.Default().Name(), info.Backend)
			assert.NotEmpty(t, info.CPU)
		})
	}
}

func TestNew_DelayLineLength(t *testing.T) {
	cfg := validConfig()
	cfg.DelayLineLength = 100
	c, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, c.DelayLineLength())

	cfg.DelayLineLength = 32
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrInvalidBufferLength, "shorter than the 64-tap filter")
}

func TestNew_Backends(t *testing.T) {
	for _, b := range []Backend{BackendScalar, BackendPaired} {
		cfg := validConfig()
		cfg.Backend = b
		c, err := New(cfg)
		require.NoError(t, err)
		assert.Equal(t, b.String(), c.Info().Backend)
	}
}

func TestConverter_SetFormats(t *testing.T) {
	c, err := New(validConfig())
	require.NoError(t, err)

	require.NoError(t, c.SetInputFormat(Deinterleaved))
	require.NoError(t, c.SetOutputFormat(Deinterleaved))
	assert.Equal(t, Deinterleaved, c.Config().InputFormat)
	assert.Equal(t, Deinterleaved, c.Config().OutputFormat)
	assert.ErrorIs(t, c.SetInputFormat(IOFormat(4)), ErrInvalidBufferPointer)

	ratio := c.Ratio()
	assert.Equal(t, ratio, c.Ratio(), "format changes keep the ratio")
}

func TestConverter_ReleaseLifecycle(t *testing.T) {
	cfg := validConfig()
	c, err := New(cfg)
	require.NoError(t, err)

	released := c.Release()
	require.NotNil(t, released)
	assert.Nil(t, c.Release(), "second release")
	assert.Equal(t, cfg, released.Config())

	in := [][]int32{make([]int32, 2*16)}
	out := [][]int32{make([]int32, 2*cfg.BufferLength)}
	_, err = c.ProcessPush32(in, out, 16, &Indices{})
	assert.ErrorIs(t, err, ErrInitFailed)
	assert.ErrorIs(t, c.UpdateDrift(fixed.One2_30), ErrInitFailed)
	assert.ErrorIs(t, c.SetInputFormat(Interleaved), ErrInitFailed)
	assert.Zero(t, c.FilterLength())

	// 44.1 kHz to 22.05 kHz has no filter; the handle stays usable.
	_, err = released.SetFsRatio(44100, 22050)
	require.ErrorIs(t, err, ErrInvalidSampleRate)
	_, err = released.SetFsRatio(44100, 44000)
	require.ErrorIs(t, err, ErrInvalidSampleRate)

	next, err := released.SetFsRatio(48000, 32000)
	require.NoError(t, err)
	assert.Equal(t, fixed.Ratio5_27(48000, 32000), next.Ratio())
	assert.Equal(t, 80, next.FilterLength())
	assert.Zero(t, next.TimeValue())
	assert.Zero(t, next.Wraps())

	_, err = next.ProcessPush32(in, out, 16, &Indices{})
	require.NoError(t, err)

	_, err = released.SetFsRatio(48000, 24000)
	assert.ErrorIs(t, err, ErrInitFailed, "handle is spent")
}

func TestConverter_Reset(t *testing.T) {
	c, err := New(validConfig())
	require.NoError(t, err)

	in := [][]int32{make([]int32, 2*300)}
	for i := range in[0] {
		in[0][i] = int32(i * 1000)
	}
	out := [][]int32{make([]int32, 2*1024)}
	_, err = c.ProcessPush32(in, out, 300, &Indices{})
	require.NoError(t, err)
	require.NotZero(t, c.WritePosition())

	ratio := c.Ratio()
	c.Reset()
	assert.Zero(t, c.WritePosition())
	assert.Zero(t, c.TimeValue())
	assert.Equal(t, ratio, c.Ratio())

	// A reset converter reproduces its first output.
	first := make([]int32, 2*1024)
	c2, err := New(validConfig())
	require.NoError(t, err)
	_, err = c2.ProcessPush32(in, [][]int32{first}, 300, &Indices{})
	require.NoError(t, err)

	again := make([]int32, 2*1024)
	_, err = c.ProcessPush32(in, [][]int32{again}, 300, &Indices{})
	require.NoError(t, err)
	assert.Equal(t, first, again)
}
