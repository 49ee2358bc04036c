package asrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-asrc/internal/fixed"
	"github.com/tphakala/go-asrc/internal/testutil"
)

func TestUpdateDrift(t *testing.T) {
	c, err := New(validConfig())
	require.NoError(t, err)
	nominal, nominalInv := c.Ratio(), c.RatioInv()

	require.NoError(t, c.UpdateDrift(fixed.One2_30))
	assert.Equal(t, nominal, c.Ratio(), "unity skew is exact")
	assert.Equal(t, nominalInv, c.RatioInv())

	require.NoError(t, c.UpdateDrift(SkewFromPPM(100)))
	assert.InEpsilon(t, nominal.Float64()*1.0001, c.Ratio().Float64(), 1e-7)
	assert.InEpsilon(t, nominalInv.Float64()/1.0001, c.RatioInv().Float64(), 1e-6)

	// Out of range skews are rejected, not clamped.
	drifted := c.Ratio()
	assert.ErrorIs(t, c.UpdateDrift(SkewMin-1), ErrInvalidClockSkew)
	assert.ErrorIs(t, c.UpdateDrift(-fixed.One2_30), ErrInvalidClockSkew)
	assert.Equal(t, drifted, c.Ratio())

	require.NoError(t, c.UpdateDrift(SkewMin))
	assert.Equal(t, nominal/2, c.Ratio())
	require.NoError(t, c.UpdateDrift(SkewMax))
	assert.InEpsilon(t, nominal.Float64()*2, c.Ratio().Float64(), 1e-8)
}

func TestUpdateDrift_ChangesOutputRate(t *testing.T) {
	cfg := validConfig()
	cfg.NumChannels = 1
	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.UpdateDrift(SkewFromPPM(10000)))

	input := testutil.ToInt32(testutil.Sine(48000, 1000, 48000, 0.5, 0))
	out := pushLinear32(t, c, input, fixedChunk(480))
	assert.InDelta(t, 44100/1.01, len(out), 2)
}

func TestUpdateDrift_WrongControlMode(t *testing.T) {
	cfg := validConfig()
	cfg.ControlMode = Fixed
	c, err := New(cfg)
	require.NoError(t, err)

	ratio := c.Ratio()
	assert.ErrorIs(t, c.UpdateDrift(SkewFromPPM(50)), ErrInvalidControlMode)
	assert.Equal(t, ratio, c.Ratio())

	f, err := New(validConfig())
	require.NoError(t, err)
	assert.ErrorIs(t, f.UpdateFsRatio(480, 441), ErrInvalidControlMode)
	assert.Equal(t, ratio, f.Ratio())
}

func TestUpdateFsRatio_Errors(t *testing.T) {
	cfg := validConfig()
	cfg.ControlMode = Fixed
	c, err := New(cfg)
	require.NoError(t, err)
	ratio := c.Ratio()

	assert.ErrorIs(t, c.UpdateFsRatio(0, 441), ErrInvalidFrameSize)
	assert.ErrorIs(t, c.UpdateFsRatio(480, -1), ErrInvalidFrameSize)
	assert.ErrorIs(t, c.UpdateFsRatio(480, 100), ErrInvalidClockSkew)
	assert.ErrorIs(t, c.UpdateFsRatio(100, 480), ErrInvalidClockSkew)
	assert.Equal(t, ratio, c.Ratio())

	// Processing is refused until a cycle is armed.
	in := [][]int32{make([]int32, 2*480)}
	out := [][]int32{make([]int32, 2*1024)}
	_, err = c.ProcessPush32(in, out, 480, &Indices{})
	assert.ErrorIs(t, err, ErrUpdateFsFailed)
}

func TestFixedMode_PushCycle(t *testing.T) {
	cfg := validConfig()
	cfg.ControlMode = Fixed
	c, err := New(cfg)
	require.NoError(t, err)

	in := [][]int32{testutil.ToInt32(testutil.Sine(2*480, 1000, 48000, 0.5, 0))}
	out := [][]int32{make([]int32, 2*cfg.BufferLength)}

	for cycle := range 3 {
		require.NoError(t, c.UpdateFsRatio(480, 441))
		assert.Equal(t, fixed.Ratio5_27(480, 441)+1, c.Ratio())
		assert.Zero(t, c.TimeValue())

		produced := 0
		for _, n := range []int{100, 200, 180} {
			res, err := c.ProcessPush32(in, out, n, &Indices{})
			require.NoError(t, err, "cycle %d", cycle)
			require.Equal(t, n, res.InputFrames)
			produced += res.OutputFrames
		}
		assert.Equal(t, 441, produced, "cycle %d", cycle)
		assert.LessOrEqual(t, c.TimeValue(), timeValueLimit)

		_, err = c.ProcessPush32(in, out, 10, &Indices{})
		assert.ErrorIs(t, err, ErrUpdateFsFailed, "cycle closed")
	}
}

func TestFixedMode_PushCycleOverrun(t *testing.T) {
	cfg := validConfig()
	cfg.ControlMode = Fixed
	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.UpdateFsRatio(480, 441))

	in := [][]int32{make([]int32, 2*960)}
	out := [][]int32{make([]int32, 2*cfg.BufferLength)}
	res, err := c.ProcessPush32(in, out, 960, &Indices{})
	assert.ErrorIs(t, err, ErrFailedPushMode)
	assert.Equal(t, 960, res.InputFrames)
	assert.Equal(t, CodeFailedPushMode, CodeOf(err))
}

func TestFixedMode_PullCycle(t *testing.T) {
	cfg := validConfig()
	cfg.ControlMode = Fixed
	cfg.OperationMode = Pull
	cfg.BufferLength = 512
	c, err := New(cfg)
	require.NoError(t, err)

	in := [][]int32{make([]int32, 2*cfg.BufferLength)}
	out := [][]int32{make([]int32, 2*480)}

	for cycle := range 2 {
		require.NoError(t, c.UpdateFsRatio(480, 441))

		idx := Indices{Write: cfg.BufferLength}
		res, err := c.ProcessPull32(in, out, 480, &idx)
		require.NoError(t, err, "cycle %d", cycle)
		assert.Equal(t, Result{InputFrames: 441, OutputFrames: 480}, res)
		assert.Equal(t, 441, idx.Read)
		assert.LessOrEqual(t, c.TimeValuePull(), timeValueLimit)

		_, err = c.ProcessPull32(in, out, 1, &Indices{Write: 10})
		assert.ErrorIs(t, err, ErrUpdateFsFailed)
	}
}

func TestSkewHelpers(t *testing.T) {
	assert.Equal(t, fixed.One2_30, SkewFromPPM(0))
	assert.InDelta(t, 1.000050, SkewFromPPM(50).Float64(), 1e-9)
	assert.InDelta(t, 0.999, SkewFromPPM(-1000).Float64(), 1e-9)

	skew, err := SkewFromFrames(48000, 48048)
	require.NoError(t, err)
	assert.InDelta(t, 1.001, skew.Float64(), 1e-9)

	_, err = SkewFromFrames(0, 10)
	assert.ErrorIs(t, err, ErrInvalidFrameSize)
	_, err = SkewFromFrames(100, 250)
	assert.ErrorIs(t, err, ErrInvalidClockSkew)
	_, err = SkewFromFrames(100, 40)
	assert.ErrorIs(t, err, ErrInvalidClockSkew)
}
